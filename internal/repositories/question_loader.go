package repositories

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"gopkg.in/yaml.v3"
)

// questionSource is the on-disk shape of a question in YAML and JSON files.
type questionSource struct {
	ID      string          `yaml:"id" json:"id"`
	Kind    string          `yaml:"kind" json:"kind"`
	Title   string          `yaml:"title" json:"title"`
	Content string          `yaml:"content" json:"content"`
	Options []models.Option `yaml:"options" json:"options"`
	Answer  interface{}     `yaml:"answer" json:"answer"`
}

type questionDocument struct {
	Questions []questionSource `yaml:"questions" json:"questions"`
}

// LoadQuestions reads one file or every supported file under a directory,
// in lexical path order.
func LoadQuestions(path string) ([]*models.Question, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question source: %w", err)
	}
	if !info.IsDir() {
		return loadQuestionFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isQuestionFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	sort.Strings(files)

	var questions []*models.Question
	for _, file := range files {
		loaded, err := loadQuestionFile(file)
		if err != nil {
			return nil, err
		}
		questions = append(questions, loaded...)
	}
	return questions, nil
}

func isQuestionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".xlsx":
		return true
	default:
		return false
	}
}

func loadQuestionFile(path string) ([]*models.Question, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return LoadQuestionsFromExcel(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var sources []questionSource
	switch ext {
	case ".yaml", ".yml":
		sources, err = decodeYAMLQuestions(data)
	case ".json":
		sources, err = decodeJSONQuestions(data)
	default:
		return nil, fmt.Errorf("unsupported question file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	questions := make([]*models.Question, 0, len(sources))
	for i, src := range sources {
		q, err := src.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("%s: question %d: %w", path, i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func decodeYAMLQuestions(data []byte) ([]questionSource, error) {
	var list []questionSource
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc questionDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Questions, nil
}

func decodeJSONQuestions(data []byte) ([]questionSource, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []questionSource
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc questionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Questions, nil
}

func (s questionSource) toQuestion() (*models.Question, error) {
	kind := models.QuestionKind(strings.ToLower(strings.TrimSpace(s.Kind)))
	raw := s.Answer
	switch v := raw.(type) {
	case int, int64, float64, bool:
		// YAML reads bare fill answers such as 3 or true as scalars
		raw = fmt.Sprint(v)
	}
	answer, ok := models.ReferenceAnswer(kind, raw)
	if !ok {
		return nil, fmt.Errorf("answer of %q must be a string%s", s.ID, multipleHint(kind))
	}
	return &models.Question{
		ID:      s.ID,
		Kind:    kind,
		Title:   s.Title,
		Content: s.Content,
		Options: s.Options,
		Answer:  answer,
	}, nil
}

func multipleHint(kind models.QuestionKind) string {
	if kind == models.KindMultiple {
		return " or a list of option keys"
	}
	return ""
}
