package repositories

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// QuestionSheet is the sheet read from workbooks. Columns are matched by header:
// id | kind | title | content | options | answer.
const QuestionSheet = "questions"

var questionColumns = []string{"id", "kind", "title", "content", "options", "answer"}

// LoadQuestionsFromExcel reads questions from an xlsx workbook. Options are
// written "A=label;B=label" and multiple choice answers "A,C".
func LoadQuestionsFromExcel(path string) ([]*models.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(QuestionSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q in %s: %w", QuestionSheet, path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(questionColumns))
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"id", "kind", "answer"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: sheet %q is missing column %q", path, QuestionSheet, col)
		}
	}

	var questions []*models.Question
	for rowNum, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		id := strings.TrimSpace(cell("id"))
		if id == "" {
			continue
		}

		kind := models.QuestionKind(strings.ToLower(strings.TrimSpace(cell("kind"))))
		options, err := parseOptionCell(cell("options"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, rowNum+2, err)
		}

		questions = append(questions, &models.Question{
			ID:      id,
			Kind:    kind,
			Title:   cell("title"),
			Content: cell("content"),
			Options: options,
			Answer:  parseAnswerCell(kind, cell("answer")),
		})
	}
	return questions, nil
}

func parseOptionCell(value string) ([]models.Option, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var options []models.Option
	for _, part := range strings.Split(value, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, label, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("option %q must be written key=label", part)
		}
		options = append(options, models.Option{
			Key:   strings.TrimSpace(key),
			Label: strings.TrimSpace(label),
		})
	}
	return options, nil
}

func parseAnswerCell(kind models.QuestionKind, value string) models.Answer {
	if kind != models.KindMultiple {
		return models.TextAnswer(value)
	}
	var keys []string
	for _, key := range strings.Split(value, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return models.KeysAnswer(keys...)
}

// WriteQuestionsToExcel writes questions in the layout LoadQuestionsFromExcel reads.
func WriteQuestionsToExcel(path string, questions []*models.Question) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", QuestionSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range questionColumns {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(QuestionSheet, cellName, header)
	}

	for r, q := range questions {
		var options []string
		for _, opt := range q.Options {
			options = append(options, opt.Key+"="+opt.Label)
		}
		answer := q.Answer.Text
		if q.Answer.Multi {
			answer = strings.Join(q.Answer.Keys, ",")
		}

		values := []string{q.ID, string(q.Kind), q.Title, q.Content, strings.Join(options, ";"), answer}
		for c, value := range values {
			cellName, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(QuestionSheet, cellName, value)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
