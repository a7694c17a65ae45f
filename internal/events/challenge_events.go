package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents the widget transitions published on the bus
type EventType string

const (
	EventRestored  EventType = "challenge.restored"
	EventSelected  EventType = "challenge.selected"
	EventSubmitted EventType = "challenge.submitted"
	EventLocked    EventType = "challenge.locked"
	EventUnlocked  EventType = "challenge.unlocked"
	EventTick      EventType = "challenge.tick"
	EventCompleted EventType = "challenge.completed"
	EventReset     EventType = "challenge.reset"
)

const (
	TopicChallengeEvents = "challenge.events"
	eventSource          = "challenge-service"
	eventVersion         = "1.0"
)

// ChallengeEvent is the envelope for every widget transition. Data holds the
// widget snapshot at the time of the event.
type ChallengeEvent struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	QuestionID string      `json:"question_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Source     string      `json:"source"`
	Version    string      `json:"version"`
	Data       interface{} `json:"data,omitempty"`
}

func NewChallengeEvent(eventType EventType, questionID string, at time.Time, data interface{}) *ChallengeEvent {
	return &ChallengeEvent{
		ID:         watermill.NewUUID(),
		Type:       eventType,
		QuestionID: questionID,
		Timestamp:  at,
		Source:     eventSource,
		Version:    eventVersion,
		Data:       data,
	}
}
