package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_Matches(t *testing.T) {
	tests := []struct {
		name      string
		reference Answer
		candidate Answer
		want      bool
	}{
		{"exact text", TextAnswer("B"), TextAnswer("B"), true},
		{"different text", TextAnswer("B"), TextAnswer("A"), false},
		{"case sensitive", TextAnswer("closure"), TextAnswer("Closure"), false},
		{"no trimming", TextAnswer("closure"), TextAnswer(" closure"), false},
		{"same order", KeysAnswer("A", "B"), KeysAnswer("A", "B"), true},
		{"reverse order", KeysAnswer("A", "B"), KeysAnswer("B", "A"), true},
		{"subset", KeysAnswer("A", "C"), KeysAnswer("A"), false},
		{"superset", KeysAnswer("A", "C"), KeysAnswer("A", "B", "C"), false},
		{"same size different keys", KeysAnswer("A", "C"), KeysAnswer("A", "B"), false},
		{"shape mismatch", TextAnswer("A"), KeysAnswer("A"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reference.Matches(tt.candidate))
		})
	}
}

func TestAnswer_MatchesDoesNotReorderCandidate(t *testing.T) {
	candidate := KeysAnswer("C", "A")
	KeysAnswer("A", "C").Matches(candidate)
	assert.Equal(t, []string{"C", "A"}, candidate.Keys)
}

func TestAnswer_Toggle(t *testing.T) {
	a := KeysAnswer()
	a = a.Toggle("A")
	a = a.Toggle("C")
	assert.Equal(t, []string{"A", "C"}, a.Keys)

	a = a.Toggle("A")
	assert.Equal(t, []string{"C"}, a.Keys)
	assert.True(t, a.Multi)
}

func TestAnswer_IsEmpty(t *testing.T) {
	assert.True(t, TextAnswer("").IsEmpty())
	assert.False(t, TextAnswer(" ").IsEmpty())
	assert.True(t, KeysAnswer().IsEmpty())
	assert.False(t, KeysAnswer("A").IsEmpty())
}

func TestAnswer_JSON(t *testing.T) {
	data, err := json.Marshal(KeysAnswer())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var text Answer
	require.NoError(t, json.Unmarshal([]byte(`"closure"`), &text))
	assert.Equal(t, TextAnswer("closure"), text)

	var keys Answer
	require.NoError(t, json.Unmarshal([]byte(` ["C","A"]`), &keys))
	assert.True(t, keys.Multi)
	assert.Equal(t, []string{"C", "A"}, keys.Keys)

	var bad Answer
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestAttemptState_RoundTrip(t *testing.T) {
	answer := KeysAnswer("A", "C")
	state := AttemptState{
		UserAnswer:    &answer,
		LastWrongTime: UnixMillis(time.UnixMilli(1735689600000)),
	}

	data, err := state.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"isCompleted":false,"userAnswer":["A","C"],"lastWrongTime":1735689600000}`, string(data))

	decoded, err := DecodeAttemptState(data)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestDecodeAttemptState_CompletedDropsLastWrong(t *testing.T) {
	decoded, err := DecodeAttemptState([]byte(`{"isCompleted":true,"userAnswer":"B","lastWrongTime":5}`))
	require.NoError(t, err)
	assert.True(t, decoded.IsCompleted)
	assert.Nil(t, decoded.LastWrongTime)
}

func TestAttemptState_LockRemaining(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	assert.Zero(t, AttemptState{}.LockRemaining(now))

	recent := AttemptState{LastWrongTime: UnixMillis(now.Add(-time.Hour))}
	assert.Equal(t, 23*time.Hour, recent.LockRemaining(now))

	expired := AttemptState{LastWrongTime: UnixMillis(now.Add(-LockoutDuration))}
	assert.Zero(t, expired.LockRemaining(now))

	future := AttemptState{LastWrongTime: UnixMillis(now.Add(time.Hour))}
	assert.Equal(t, LockoutDuration, future.LockRemaining(now))
}

func TestReferenceAnswer(t *testing.T) {
	a, ok := ReferenceAnswer(KindMultiple, "A")
	require.True(t, ok)
	assert.Equal(t, KeysAnswer("A"), a)

	a, ok = ReferenceAnswer(KindMultiple, []interface{}{"A", "C"})
	require.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, a.Keys)

	a, ok = ReferenceAnswer(KindFill, "closure")
	require.True(t, ok)
	assert.Equal(t, TextAnswer("closure"), a)

	_, ok = ReferenceAnswer(KindSingle, []string{"A"})
	assert.False(t, ok)

	_, ok = ReferenceAnswer(KindMultiple, []interface{}{"A", 3})
	assert.False(t, ok)

	_, ok = ReferenceAnswer(KindSingle, nil)
	assert.False(t, ok)
}

func TestQuestion_StorageKey(t *testing.T) {
	assert.Equal(t, "challenge_closure-1", Question{ID: "closure-1"}.StorageKey())
}
