// Package knowledge holds the static health Q&A corpus and the keyword matcher
// that answers from it before any generative provider is consulted.
package knowledge

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

//go:embed data/health_corpus.json
var defaultCorpus []byte

var (
	ErrEmptyCorpus     = errors.New("knowledge: corpus has no entries")
	ErrMissingBaseline = errors.New("knowledge: baseline translation missing")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Entry is one keyword group with its per-language answer.
type Entry struct {
	Topic     string                  `json:"topic,omitempty" yaml:"topic,omitempty"`
	Keywords  []string                `json:"keywords" yaml:"keywords" validate:"required,min=1,dive,required"`
	Responses map[language.Tag]string `json:"response" yaml:"response" validate:"required,min=1,dive,keys,oneof=en hi or,endkeys,required"`
}

// Alert is one broadcast message from the fixed pool.
type Alert struct {
	Messages map[language.Tag]string `json:"message" yaml:"message" validate:"required,min=1,dive,keys,oneof=en hi or,endkeys,required"`
}

// Text returns the alert in tag, or the baseline text.
func (a Alert) Text(tag language.Tag) string {
	if s, ok := a.Messages[tag]; ok && s != "" {
		return s
	}
	return a.Messages[language.Baseline]
}

type Corpus struct {
	Questions []Entry `json:"questions" yaml:"questions" validate:"dive"`
	Alerts    []Alert `json:"alerts" yaml:"alerts" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the corpus bundled with the binary.
func Default() (*Corpus, error) {
	return Parse(defaultCorpus, FormatJSON)
}

// Load reads and validates a corpus file. The format follows the extension.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read corpus: %w", err)
	}
	c, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte, format Format) (*Corpus, error) {
	var c Corpus
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("knowledge: decode corpus: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks shape and that every entry and alert has baseline text.
func (c *Corpus) Validate() error {
	if len(c.Questions) == 0 {
		return ErrEmptyCorpus
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("knowledge: invalid corpus: %w", err)
	}
	for i, q := range c.Questions {
		if strings.TrimSpace(q.Responses[language.Baseline]) == "" {
			return fmt.Errorf("question %d (%v): %w", i, q.Keywords, ErrMissingBaseline)
		}
	}
	for i, a := range c.Alerts {
		if strings.TrimSpace(a.Messages[language.Baseline]) == "" {
			return fmt.Errorf("alert %d: %w", i, ErrMissingBaseline)
		}
	}
	return nil
}

// AddEntry appends a validated entry; existing entries keep precedence.
func (c *Corpus) AddEntry(e Entry) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("knowledge: invalid entry: %w", err)
	}
	if strings.TrimSpace(e.Responses[language.Baseline]) == "" {
		return ErrMissingBaseline
	}
	c.Questions = append(c.Questions, e)
	return nil
}

// Save writes the corpus in the format implied by path.
func (c *Corpus) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if formatOf(path) == FormatYAML {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}
