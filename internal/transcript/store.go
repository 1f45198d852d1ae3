package transcript

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one probe execution.
type Run struct {
	ID          uint `gorm:"primaryKey"`
	Variant     string
	URL         string
	Roster      string `gorm:"type:text"` // the JSON payload as sent
	Count       int
	Started     bool
	Ended       bool
	Winner      string
	Termination string
	CloseCode   int
	CloseReason string
	Error       string
	StartedAt   time.Time `gorm:"index"`
	FinishedAt  time.Time
	Lines       []Line `gorm:"constraint:OnDelete:CASCADE"`
}

// Line is one received frame.
type Line struct {
	ID       uint `gorm:"primaryKey"`
	RunID    uint `gorm:"index"`
	Seq      int
	Category string
	Text     string `gorm:"type:text"`
	DeltaMS  int64
	Source   string
	Target   string
	Amount   int // damage, folded into the attack when it follows one
	Dice     int
	Ability  string
}

type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the transcript tables.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open transcript db: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&Run{}, &Line{}); err != nil {
		return nil, fmt.Errorf("migrate transcript db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts the run and its lines in one transaction.
func (s *Store) Save(ctx context.Context, run *Run) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
}

// Recent returns the latest runs, newest first, lines included.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
