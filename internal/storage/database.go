package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback_backend/internal/logger"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Document is one stored collection.
type Document struct {
	Key       string         `gorm:"column:doc_key;primaryKey;size:128"`
	Body      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string { return "documents" }

// DatabaseStorage keeps collections as rows of the documents table.
type DatabaseStorage struct {
	db *gorm.DB
}

// NewDatabaseStorage connects with the configured driver and migrates the
// documents table.
func NewDatabaseStorage(cfg Config) (*DatabaseStorage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewDatabaseStorageFromDB(db)
}

// NewDatabaseStorageFromDB uses an existing connection.
func NewDatabaseStorageFromDB(db *gorm.DB) (*DatabaseStorage, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &DatabaseStorage{db: db}, nil
}

func (s *DatabaseStorage) Name() string { return "database" }

func (s *DatabaseStorage) Get(ctx context.Context, key string) (body []byte, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.Name(), "get", key, time.Since(start), ignoreNotFound(err)) }()

	var doc Document
	err = s.db.WithContext(ctx).Where("doc_key = ?", key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, unavailable(s.Name(), key, err)
	}
	return []byte(doc.Body), nil
}

// Put upserts the row for key.
func (s *DatabaseStorage) Put(ctx context.Context, key string, body []byte) (err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.Name(), "put", key, time.Since(start), err) }()

	doc := Document{Key: key, Body: datatypes.JSON(body), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return writeFailed(s.Name(), key, err)
	}
	return nil
}

func (s *DatabaseStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database: %w: %w", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w: %w", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *DatabaseStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
