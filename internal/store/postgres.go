package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresStore struct {
	db      *gorm.DB
	profile string
}

// NewPostgresStore migrates the challenge_states table and scopes every row to profile.
func NewPostgresStore(db *gorm.DB, profile string) (*PostgresStore, error) {
	if err := db.AutoMigrate(&models.ChallengeStateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate challenge_states: %w", err)
	}
	return &PostgresStore{db: db, profile: profile}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.ChallengeStateRecord
	err := p.db.WithContext(ctx).
		Where("profile = ? AND state_key = ?", p.profile, key).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(record.Value), nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	record := models.ChallengeStateRecord{
		Profile:  p.profile,
		StateKey: key,
		Value:    datatypes.JSON(value),
	}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}, {Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	err := p.db.WithContext(ctx).
		Where("profile = ? AND state_key = ?", p.profile, key).
		Delete(&models.ChallengeStateRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
