package models

import (
	"encoding/json"
	"time"
)

// LockoutDuration is how long resubmission is blocked after a wrong answer.
const LockoutDuration = 24 * time.Hour

// AttemptState is the persisted progress on one question. LastWrongTime holds
// Unix milliseconds and is absent once the question is completed.
type AttemptState struct {
	IsCompleted   bool    `json:"isCompleted"`
	UserAnswer    *Answer `json:"userAnswer,omitempty"`
	LastWrongTime *int64  `json:"lastWrongTime,omitempty"`
}

// LastWrong returns the time of the most recent wrong submission, if any.
func (s AttemptState) LastWrong() (time.Time, bool) {
	if s.LastWrongTime == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*s.LastWrongTime), true
}

// LockRemaining derives the remaining lockout at now. It is zero when no
// lockout is active and never exceeds LockoutDuration.
func (s AttemptState) LockRemaining(now time.Time) time.Duration {
	last, ok := s.LastWrong()
	if !ok {
		return 0
	}
	passed := now.Sub(last)
	if passed < 0 {
		passed = 0
	}
	if passed >= LockoutDuration {
		return 0
	}
	return LockoutDuration - passed
}

func (s AttemptState) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeAttemptState parses a stored record. Callers treat any error as "no prior attempt".
func DecodeAttemptState(data []byte) (AttemptState, error) {
	var state AttemptState
	if err := json.Unmarshal(data, &state); err != nil {
		return AttemptState{}, err
	}
	if state.IsCompleted {
		state.LastWrongTime = nil
	}
	return state, nil
}

func UnixMillis(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}
