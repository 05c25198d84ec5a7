package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/session"
	sessionPostgres "github.com/frahmantamala/navguard/internal/session/postgres"
	sessionRedis "github.com/frahmantamala/navguard/internal/session/redis"
	"github.com/frahmantamala/navguard/internal/transport/rest"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// storage is the grant set store chosen by configuration plus what it needs
// to report health and shut down.
type storage struct {
	Store   session.Store
	SQL     *sql.DB
	Dialect string
	Checks  map[string]rest.Checker
	closers []func() error
}

func (s *storage) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openStorage(cfg *internal.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case internal.StorageDriverPostgres:
		db, err := initDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open gorm: %w", err)
		}
		return &storage{
			Store:   sessionPostgres.NewStore(gormDB),
			SQL:     db.DB,
			Dialect: "postgres",
			Checks:  map[string]rest.Checker{"database": db.PingContext},
			closers: []func() error{db.Close},
		}, nil

	case internal.StorageDriverSQLite:
		gormDB, err := gorm.Open(sqlite.Open(cfg.Storage.SQLitePath), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		return &storage{
			Store:   sessionPostgres.NewStore(gormDB),
			SQL:     sqlDB,
			Dialect: "sqlite3",
			Checks:  map[string]rest.Checker{"database": sqlDB.PingContext},
			closers: []func() error{sqlDB.Close},
		}, nil

	case internal.StorageDriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return &storage{
			Store: sessionRedis.NewStore(client, cfg.Redis.TTL),
			Checks: map[string]rest.Checker{
				"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
			},
			closers: []func() error{client.Close},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
