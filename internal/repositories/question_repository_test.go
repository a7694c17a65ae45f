package repositories

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlQuestions = `
- id: event-loop
  kind: single
  title: Event loop order
  content: What runs first?
  options:
    - key: A
      label: setTimeout
    - key: B
      label: Promise.then
  answer: B
- id: falsy
  kind: multiple
  title: Falsy values
  options:
    - key: A
      label: "0"
    - key: B
      label: "[]"
    - key: C
      label: '""'
  answer: [A, C]
`

const jsonQuestions = `{
  "questions": [
    {"id": "closure", "kind": "fill", "title": "Closure output", "answer": "3"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadQuestions_YAMLList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "basics.yaml", yamlQuestions)

	questions, err := LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "event-loop", questions[0].ID)
	assert.Equal(t, models.KindSingle, questions[0].Kind)
	assert.Equal(t, models.TextAnswer("B"), questions[0].Answer)
	assert.Len(t, questions[0].Options, 2)

	assert.Equal(t, models.KindMultiple, questions[1].Kind)
	assert.True(t, questions[1].Answer.Matches(models.KeysAnswer("C", "A")))
}

func TestLoadQuestions_DirectoryMixesFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", yamlQuestions)
	writeFile(t, dir, "b.json", jsonQuestions)
	writeFile(t, dir, "notes.txt", "ignored")

	questions, err := LoadQuestions(dir)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "closure", questions[2].ID)
	assert.Equal(t, models.TextAnswer("3"), questions[2].Answer)
}

func TestLoadQuestions_ListAnswerOnSingleRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", `
- id: q1
  kind: single
  title: Bad
  options:
    - {key: A, label: one}
  answer: [A]
`)

	_, err := LoadQuestions(path)
	assert.Error(t, err)
}

func TestLoadQuestions_MissingPath(t *testing.T) {
	_, err := LoadQuestions(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestExcelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.xlsx")

	source := []*models.Question{
		{
			ID:    "falsy",
			Kind:  models.KindMultiple,
			Title: "Falsy values",
			Options: []models.Option{
				{Key: "A", Label: "zero"},
				{Key: "B", Label: "empty array"},
				{Key: "C", Label: "empty string"},
			},
			Answer: models.KeysAnswer("A", "C"),
		},
		{
			ID:     "closure",
			Kind:   models.KindFill,
			Title:  "Closure output",
			Answer: models.TextAnswer("3"),
		},
	}
	require.NoError(t, WriteQuestionsToExcel(path, source))

	loaded, err := LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, source[0].Options, loaded[0].Options)
	assert.True(t, loaded[0].Answer.Matches(models.KeysAnswer("A", "C")))
	assert.Empty(t, loaded[1].Options)
	assert.Equal(t, models.TextAnswer("3"), loaded[1].Answer)
}

func TestParseOptionCell(t *testing.T) {
	options, err := parseOptionCell("A=setTimeout; B = Promise.then ;")
	require.NoError(t, err)
	assert.Equal(t, []models.Option{
		{Key: "A", Label: "setTimeout"},
		{Key: "B", Label: "Promise.then"},
	}, options)

	_, err = parseOptionCell("A setTimeout")
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", yamlQuestions)
	writeFile(t, dir, "b.json", jsonQuestions)

	repo, err := LoadCatalog(dir, validator.New(), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, repo.Count())

	q, err := repo.GetByID(context.Background(), "falsy")
	require.NoError(t, err)
	assert.Equal(t, "Falsy values", q.Title)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.True(t, IsNotFoundError(err))
}

func TestLoadCatalog_DuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", yamlQuestions)
	writeFile(t, dir, "b.yaml", yamlQuestions)

	_, err := LoadCatalog(dir, validator.New(), discardLogger())
	assert.Error(t, err)
}

func TestQuestionCatalog_List(t *testing.T) {
	fill := models.KindFill
	repo := NewQuestionCatalog([]*models.Question{
		{ID: "a", Kind: models.KindSingle},
		{ID: "b", Kind: models.KindFill},
		{ID: "c", Kind: models.KindFill},
	})

	all, total, err := repo.List(context.Background(), QuestionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	fills, total, err := repo.List(context.Background(), QuestionFilters{Kind: &fill, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, fills, 1)
	assert.Equal(t, "b", fills[0].ID)

	page, _, err := repo.List(context.Background(), QuestionFilters{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestLoadQuestions_ScalarFillAnswer(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fill.yml", `
questions:
  - id: closure
    kind: fill
    title: Closure output
    answer: 3
`)

	questions, err := LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, models.TextAnswer("3"), questions[0].Answer)
}
