package batch

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a batch of submissions.
type File struct {
	// Name identifies the batch in logs and output.
	Name string `yaml:"name"`

	// Submissions are processed in order.
	Submissions []Submission `yaml:"submissions"`
}

// Submission is one taxpayer's input, already in parsed form.
type Submission struct {
	UserID         string `yaml:"user_id"`
	IdentityNumber string `yaml:"ic_number"`
	Password       string `yaml:"password"`

	Income float64 `yaml:"income"`

	// SpouseIncome, if set, decides eligibility for spouse relief.
	SpouseIncome *float64 `yaml:"spouse_income,omitempty"`

	// Claims maps relief category to amount or unit count.
	// Unknown categories are ignored.
	Claims map[string]float64 `yaml:"claims,omitempty"`
}

// Load reads and parses a batch YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates batch YAML.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateFile(&f); err != nil {
		return nil, fmt.Errorf("invalid batch: %w", err)
	}

	return &f, nil
}

// validateFile checks that required fields are present and valid.
func validateFile(f *File) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(f.Submissions) == 0 {
		return fmt.Errorf("submissions list is required and must be non-empty")
	}

	for i, s := range f.Submissions {
		if s.UserID == "" {
			return fmt.Errorf("submissions[%d]: user_id is required", i)
		}
		if s.IdentityNumber == "" {
			return fmt.Errorf("submissions[%d]: ic_number is required", i)
		}
		if s.Income < 0 {
			return fmt.Errorf("submissions[%d]: income must not be negative", i)
		}
		if s.SpouseIncome != nil && *s.SpouseIncome < 0 {
			return fmt.Errorf("submissions[%d]: spouse_income must not be negative", i)
		}
		for name, v := range s.Claims {
			if v < 0 {
				return fmt.Errorf("submissions[%d]: claim %q must not be negative", i, name)
			}
		}
	}

	return nil
}
