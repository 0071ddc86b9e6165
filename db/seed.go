package db

import (
	"fmt"
	"io"

	"github.com/NomadCrew/feedback-service/types"
	"gopkg.in/yaml.v3"
)

// SeedRecord is one fixture submission in a seed file.
type SeedRecord struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Message string `yaml:"message"`
}

// FeedbackCreate converts the record into a submission.
func (r SeedRecord) FeedbackCreate() types.FeedbackCreate {
	return types.FeedbackCreate{Name: r.Name, Email: r.Email, Message: r.Message}
}

type seedFile struct {
	Feedback []SeedRecord `yaml:"feedback"`
}

// LoadSeed parses a YAML document of the form
//
//	feedback:
//	  - name: Ada
//	    email: ada@example.com
//	    message: Hi
func LoadSeed(r io.Reader) ([]SeedRecord, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return f.Feedback, nil
}
