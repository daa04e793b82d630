package knowledge

import (
	"strings"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

type compiledEntry struct {
	keywords  []string
	responses map[language.Tag]string
}

// Matcher answers from the corpus by keyword substring. Entries are tried in
// corpus order and the first entry with any hit wins.
type Matcher struct {
	entries []compiledEntry
}

func NewMatcher(c *Corpus) *Matcher {
	m := &Matcher{entries: make([]compiledEntry, 0, len(c.Questions))}
	for _, q := range c.Questions {
		ce := compiledEntry{responses: q.Responses}
		for _, k := range q.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				ce.keywords = append(ce.keywords, k)
			}
		}
		m.entries = append(m.entries, ce)
	}
	return m
}

// Match returns the matched entry's text in tag, falling back to the baseline
// translation. ok is false when no keyword occurs in text.
func (m *Matcher) Match(text string, tag language.Tag) (string, bool) {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return "", false
	}
	for _, e := range m.entries {
		for _, k := range e.keywords {
			if !strings.Contains(input, k) {
				continue
			}
			if s := e.responses[tag]; s != "" {
				return s, true
			}
			return e.responses[language.Baseline], true
		}
	}
	return "", false
}

func (m *Matcher) Len() int { return len(m.entries) }
