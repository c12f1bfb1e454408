package storage

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sqlite stores catalog records in a local SQLite database.
type Sqlite struct {
	db *gorm.DB
}

// FromConfig opens the backend the loaded configuration selects.
func FromConfig() (Backend, error) {
	switch backend := viper.GetString("db.backend"); backend {
	case "sqlite":
		return OpenSqlite(viper.GetString("db.path"))
	case "memory", "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// OpenSqlite opens or creates the catalog database at path.
func OpenSqlite(path string) (*Sqlite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	if err := db.AutoMigrate(&MapRecord{}); err != nil {
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}
	return &Sqlite{db: db}, nil
}

// SaveMap inserts the record and fills in its id.
func (s *Sqlite) SaveMap(rec *MapRecord) error {
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("saving map record: %w", err)
	}
	return nil
}

// ListMaps returns all records, newest first.
func (s *Sqlite) ListMaps() ([]MapRecord, error) {
	var recs []MapRecord
	if err := s.db.Order("id desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing map records: %w", err)
	}
	return recs, nil
}

// GetMap loads one record by id.
func (s *Sqlite) GetMap(id uint) (*MapRecord, error) {
	var rec MapRecord
	err := s.db.First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading map record %d: %w", id, err)
	}
	return &rec, nil
}

// Close releases the underlying database handle.
func (s *Sqlite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
