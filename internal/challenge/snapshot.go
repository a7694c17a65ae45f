package challenge

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

type OptionMark string

const (
	MarkNone    OptionMark = ""
	MarkCorrect OptionMark = "correct"
	MarkWrong   OptionMark = "wrong"
	MarkMissed  OptionMark = "missed"
)

type OptionView struct {
	Key      string     `json:"key"`
	Letter   string     `json:"letter"`
	Label    string     `json:"label"`
	Selected bool       `json:"selected"`
	Mark     OptionMark `json:"mark,omitempty"`
}

// Snapshot is the page-facing view of a widget.
type Snapshot struct {
	QuestionID        string              `json:"question_id"`
	Kind              models.QuestionKind `json:"kind"`
	Title             string              `json:"title"`
	Content           string              `json:"content,omitempty"`
	Status            Status              `json:"status"`
	Candidate         models.Answer       `json:"candidate"`
	ShowResult        bool                `json:"show_result"`
	IsCompleted       bool                `json:"is_completed"`
	LockRemainingMs   int64               `json:"lock_remaining_ms"`
	LockRemainingText string              `json:"lock_remaining_text,omitempty"`
	SubmittedAnswer   *models.Answer      `json:"submitted_answer,omitempty"`
	ReferenceAnswer   *models.Answer      `json:"reference_answer,omitempty"`
	Options           []OptionView        `json:"options,omitempty"`
	CanSelect         bool                `json:"can_select"`
	CanSubmit         bool                `json:"can_submit"`
	CanReset          bool                `json:"can_reset"`
}

func (w *Widget) snapshot() Snapshot {
	snap := Snapshot{
		QuestionID:      w.question.ID,
		Kind:            w.question.Kind,
		Title:           w.question.Title,
		Content:         w.question.Content,
		Status:          w.status(),
		Candidate:       w.candidate.Clone(),
		ShowResult:      w.showResult,
		IsCompleted:     w.attempt.IsCompleted,
		LockRemainingMs: w.remaining.Milliseconds(),
		CanSelect:       !w.locked && !w.attempt.IsCompleted,
		CanSubmit:       !w.locked && !w.attempt.IsCompleted && !w.candidate.IsEmpty(),
		CanReset:        !w.locked && w.showResult,
	}

	if w.locked {
		snap.LockRemainingText = FormatRemaining(w.remaining)
	}
	if w.attempt.UserAnswer != nil {
		submitted := w.attempt.UserAnswer.Clone()
		snap.SubmittedAnswer = &submitted
	}
	if w.showResult && !w.attempt.IsCompleted {
		reference := w.question.Answer.Clone()
		snap.ReferenceAnswer = &reference
	}

	for i, opt := range w.question.Options {
		selected := w.candidate.Contains(opt.Key)
		view := OptionView{
			Key:      opt.Key,
			Letter:   optionLetter(i),
			Label:    opt.Label,
			Selected: selected,
		}
		if w.showResult {
			view.Mark = w.markOption(opt.Key, selected)
		}
		snap.Options = append(snap.Options, view)
	}

	return snap
}

func (w *Widget) markOption(key string, selected bool) OptionMark {
	correct := w.question.Answer.Contains(key)
	switch {
	case w.question.Kind == models.KindMultiple && correct && !selected:
		return MarkMissed
	case w.question.Kind == models.KindMultiple && correct:
		return MarkCorrect
	case correct:
		return MarkCorrect
	case selected:
		return MarkWrong
	default:
		return MarkNone
	}
}

// FormatRemaining renders a lockout as whole hours and minutes, e.g. "23h 59m".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func optionLetter(i int) string {
	if i < 0 || i >= 26 {
		return ""
	}
	return string(rune('A' + i))
}
