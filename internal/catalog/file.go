package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/volunteer-match/internal/model"
)

// LoadFile reads a YAML or JSON list of questions from path.
func LoadFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read questions file")
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON list of questions.
func Parse(data []byte) ([]model.Question, error) {
	var questions []model.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, eris.Wrap(err, "catalog: unmarshal questions")
	}
	if len(questions) == 0 {
		return nil, eris.New("catalog: questions file is empty")
	}
	return questions, nil
}
