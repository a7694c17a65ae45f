package models

type QuestionKind string

const (
	KindSingle   QuestionKind = "single"
	KindMultiple QuestionKind = "multiple"
	KindFill     QuestionKind = "fill"
)

// Option is one selectable choice of a single or multiple choice question.
type Option struct {
	Key   string `json:"key" yaml:"key" validate:"required"`
	Label string `json:"label" yaml:"label" validate:"required"`
}

// Question is supplied by the page and never changes while a widget is mounted.
type Question struct {
	ID      string       `json:"id" validate:"required,max=200"`
	Kind    QuestionKind `json:"kind" validate:"required,question_kind"`
	Title   string       `json:"title" validate:"required"`
	Content string       `json:"content,omitempty"`
	Options []Option     `json:"options,omitempty" validate:"omitempty,dive"`
	Answer  Answer       `json:"-"`
}

// StorageKey returns the persistence key for the question's attempt state.
func (q Question) StorageKey() string {
	return StorageKey(q.ID)
}

func StorageKey(questionID string) string {
	return "challenge_" + questionID
}

// HasOption reports whether key names one of the question's options.
func (q Question) HasOption(key string) bool {
	for _, opt := range q.Options {
		if opt.Key == key {
			return true
		}
	}
	return false
}

// EmptyAnswer returns the blank candidate for the question's kind.
func (q Question) EmptyAnswer() Answer {
	if q.Kind == KindMultiple {
		return KeysAnswer()
	}
	return TextAnswer("")
}

// ReferenceAnswer converts a decoded reference (string or list) into an
// Answer for kind. A multiple choice reference given as one key becomes a
// one-element set.
func ReferenceAnswer(kind QuestionKind, raw interface{}) (Answer, bool) {
	switch v := raw.(type) {
	case string:
		if kind == KindMultiple {
			return KeysAnswer(v), true
		}
		return TextAnswer(v), true
	case []string:
		if kind != KindMultiple {
			return Answer{}, false
		}
		return KeysAnswer(v...), true
	case []interface{}:
		if kind != KindMultiple {
			return Answer{}, false
		}
		keys := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Answer{}, false
			}
			keys = append(keys, s)
		}
		return KeysAnswer(keys...), true
	default:
		return Answer{}, false
	}
}
