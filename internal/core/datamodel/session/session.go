package session

import "time"

// Storage is one persisted value of a session, addressed by session id and key.
type Storage struct {
	SessionID  string    `gorm:"column:session_id;primaryKey;size:64"`
	StorageKey string    `gorm:"column:storage_key;primaryKey;size:64"`
	Value      string    `gorm:"column:value;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Storage) TableName() string {
	return "session_storage"
}
