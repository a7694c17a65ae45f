package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChallengeStateRecord is the relational row behind the postgres attempt store.
type ChallengeStateRecord struct {
	Profile   string         `json:"profile" gorm:"primaryKey;size:100"`
	StateKey  string         `json:"state_key" gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `json:"value" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (ChallengeStateRecord) TableName() string {
	return "challenge_states"
}
