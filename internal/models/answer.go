package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Answer is either a text answer (single and fill questions) or a set of
// option keys (multiple choice). On the wire it is a JSON string or array.
type Answer struct {
	Text  string
	Keys  []string
	Multi bool
}

func TextAnswer(text string) Answer {
	return Answer{Text: text}
}

func KeysAnswer(keys ...string) Answer {
	out := make([]string, 0, len(keys))
	out = append(out, keys...)
	return Answer{Keys: out, Multi: true}
}

func (a Answer) IsEmpty() bool {
	if a.Multi {
		return len(a.Keys) == 0
	}
	return a.Text == ""
}

// Contains reports whether key is selected in a set answer, or equals a text answer.
func (a Answer) Contains(key string) bool {
	if !a.Multi {
		return a.Text == key
	}
	for _, k := range a.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Toggle returns a copy of a set answer with key added if absent or removed if present.
func (a Answer) Toggle(key string) Answer {
	out := make([]string, 0, len(a.Keys)+1)
	found := false
	for _, k := range a.Keys {
		if k == key {
			found = true
			continue
		}
		out = append(out, k)
	}
	if !found {
		out = append(out, key)
	}
	return Answer{Keys: out, Multi: true}
}

// Matches grades a candidate against the reference a. Text answers need exact,
// case-sensitive equality. Key sets must hold the same keys in any order.
func (a Answer) Matches(candidate Answer) bool {
	if a.Multi != candidate.Multi {
		return false
	}
	if !a.Multi {
		return a.Text == candidate.Text
	}
	if len(a.Keys) != len(candidate.Keys) {
		return false
	}
	want := a.Sorted()
	got := candidate.Sorted()
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// Sorted returns the keys in ascending order without touching the receiver.
func (a Answer) Sorted() []string {
	keys := make([]string, len(a.Keys))
	copy(keys, a.Keys)
	sort.Strings(keys)
	return keys
}

func (a Answer) Clone() Answer {
	if !a.Multi {
		return a
	}
	return KeysAnswer(a.Keys...)
}

func (a Answer) String() string {
	if !a.Multi {
		return a.Text
	}
	var buf bytes.Buffer
	for i, k := range a.Keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k)
	}
	return buf.String()
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		keys := a.Keys
		if keys == nil {
			keys = []string{}
		}
		return json.Marshal(keys)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty answer")
	}
	switch trimmed[0] {
	case '[':
		var keys []string
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return fmt.Errorf("invalid answer keys: %w", err)
		}
		*a = KeysAnswer(keys...)
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("invalid answer text: %w", err)
		}
		*a = TextAnswer(text)
	default:
		return fmt.Errorf("answer must be a string or an array of strings")
	}
	return nil
}
