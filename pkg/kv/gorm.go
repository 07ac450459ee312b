package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type entry struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

func (entry) TableName() string {
	return "kv_entries"
}

// Gorm stores every key as a row in a single kv_entries table. SQLite gives
// an embedded durable backend, Postgres a shared one.
type Gorm struct {
	conn *gorm.DB
}

// OpenSQLite boots the store against an embedded SQLite database.
func OpenSQLite(path string) (*Gorm, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	return open(sqlite.Open(path))
}

// OpenPostgres boots the store against a shared Postgres database.
func OpenPostgres(dsn string) (*Gorm, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	dialector := postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
	return open(dialector)
}

func open(dialector gorm.Dialector) (*Gorm, error) {
	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening kv connection: %w", err)
	}
	if err := conn.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}
	return &Gorm{conn: conn}, nil
}

func (g *Gorm) Get(ctx context.Context, key string) (string, bool, error) {
	var row entry
	err := g.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return row.Value, true, nil
}

func (g *Gorm) Set(ctx context.Context, key, value string) error {
	row := entry{Key: key, Value: value}
	err := g.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	if err := g.conn.WithContext(ctx).Delete(&entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
