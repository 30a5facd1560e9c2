// Package explain calls the AI explanation service that turns a physics
// topic into a five-part structured explanation.
package explain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLevel          = errors.New("invalid student level")
	ErrIncompleteExplanation = errors.New("incomplete explanation")
)

// Level is the student's cognitive level the explanation is tailored to.
type Level int

const (
	Beginner Level = iota + 1
	Intermediate
	Advanced
)

var levels = []struct {
	level Level
	name  string
	label string // wire value understood by the service
}{
	{Beginner, "Beginner", "مبتدئ"},
	{Intermediate, "Intermediate", "متوسط"},
	{Advanced, "Advanced", "متقدم"},
}

// ParseLevel accepts the English name in any case or the service's label.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for _, l := range levels {
		if strings.EqualFold(s, l.name) || s == l.label {
			return l.level, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func (l Level) Valid() bool {
	return l >= Beginner && l <= Advanced
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levels[l-1].name
}

// Label is the value sent to the service.
func (l Level) Label() string {
	if !l.Valid() {
		return ""
	}
	return levels[l-1].label
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return json.Marshal(l.Label())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Request asks for an explanation of Topic at Level.
type Request struct {
	Topic string `json:"topic"`
	Level Level  `json:"level"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return errors.New("topic is required")
	}
	if !r.Level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(r.Level))
	}
	return nil
}

// Explanation is the service's structured answer.
type Explanation struct {
	Conceptual     string `json:"conceptual"`
	Visual         string `json:"visual"`
	Mathematical   string `json:"mathematical"`
	ProblemSolving string `json:"problemSolving"`
	Experiment     string `json:"experiment"`
}

// Section is one titled part of an explanation.
type Section struct {
	Title string
	Body  string
}

// Sections returns the five parts in reading order.
func (e *Explanation) Sections() []Section {
	return []Section{
		{"Conceptual", e.Conceptual},
		{"Visual", e.Visual},
		{"Mathematical", e.Mathematical},
		{"Problem solving", e.ProblemSolving},
		{"Experiment", e.Experiment},
	}
}
