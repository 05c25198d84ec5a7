package postgres

import (
	"context"
	"errors"
	"time"

	sessionDatamodel "github.com/frahmantamala/navguard/internal/core/datamodel/session"
	"github.com/frahmantamala/navguard/internal/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) session.Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var row sessionDatamodel.Storage
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, session.StorageKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return []byte(row.Value), nil
}

func (s *Store) Save(ctx context.Context, sessionID string, raw []byte) error {
	now := time.Now()
	row := sessionDatamodel.Storage{
		SessionID:  sessionID,
		StorageKey: session.StorageKey,
		Value:      string(raw),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, session.StorageKey).
		Delete(&sessionDatamodel.Storage{}).Error
}
