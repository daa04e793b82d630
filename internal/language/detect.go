package language

import "unicode"

// Tag is a closed set of supported reply languages.
type Tag string

const (
	English Tag = "en"
	Hindi   Tag = "hi"
	Oriya   Tag = "or"
)

// Baseline is used when no script matches and when a translation is missing.
const Baseline = English

// script ranges are checked in this order; the first range with any hit wins.
var scripts = []struct {
	tag   Tag
	table *unicode.RangeTable
}{
	{Oriya, unicode.Oriya},
	{Hindi, unicode.Devanagari},
}

// Detect classifies text by the Unicode script of its characters.
func Detect(text string) Tag {
	for _, s := range scripts {
		for _, r := range text {
			if unicode.Is(s.table, r) {
				return s.tag
			}
		}
	}
	return Baseline
}

// Parse maps a raw tag to a known Tag, falling back to Baseline.
func Parse(raw string) Tag {
	t := Tag(raw)
	if t.Valid() {
		return t
	}
	return Baseline
}

func (t Tag) Valid() bool {
	switch t {
	case English, Hindi, Oriya:
		return true
	}
	return false
}

// DisplayName is the name used in provider prompts.
func (t Tag) DisplayName() string {
	switch t {
	case Hindi:
		return "Hindi (हिंदी)"
	case Oriya:
		return "Oriya/Odia (ଓଡ଼ିଆ)"
	default:
		return "English"
	}
}

func All() []Tag { return []Tag{English, Hindi, Oriya} }
