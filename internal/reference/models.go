package reference

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/antzucaro/matchr"
)

type Model struct {
	Code  string `json:"modelCode"`
	Title string `json:"title"`
}

// Models is the model code to marketing title table.
type Models []Model

func LoadModels(path string) (Models, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var models Models
	err = json.Unmarshal(contents, &models)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return models, nil
}

type UnknownModelError struct {
	Code string
	// empty when there is nothing close enough
	Suggestion string
}

func (e UnknownModelError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown model code %q", e.Code)
	}
	return fmt.Sprintf("unknown model code %q, did you mean %q?", e.Code, e.Suggestion)
}

// suggestions below this similarity are not worth showing
const minSuggestionSimilarity = 0.7

// Title returns the marketing title of a model code.
func (m Models) Title(code string) (string, error) {
	for _, model := range m {
		if model.Code == code {
			return model.Title, nil
		}
	}

	var suggestion string
	best := minSuggestionSimilarity
	for _, model := range m {
		similarity := matchr.JaroWinkler(code, model.Code, false)
		if similarity >= best {
			best = similarity
			suggestion = model.Code
		}
	}
	return "", UnknownModelError{Code: code, Suggestion: suggestion}
}
