package ai

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

const maxReplyWords = 100

// Instructions is the system part of every provider prompt.
func Instructions(tag language.Tag) string {
	lang := tag.DisplayName()
	return `You are a health information assistant for a public WhatsApp helpline.

Rules:
- Respond in ` + lang + ` only.
- Answer only questions about health, illness, prevention, nutrition and hygiene. Politely decline anything else.
- Keep the answer under ` + strconv.Itoa(maxReplyWords) + ` words, in 2-3 short sentences of plain language.
- For anything beyond a trivial question, advise consulting a doctor or health worker.
- Do not diagnose and do not prescribe medicine doses.`
}

// BuildPrompt is the single-turn form for providers without a system role.
func BuildPrompt(text string, tag language.Tag) string {
	return Instructions(tag) + "\n\nQuestion: \"" + strings.TrimSpace(text) + "\"\n\nResponse:"
}

var (
	scaffoldRe = regexp.MustCompile(`(?i)^\s*(trained response|response|answer|assistant)\s*:\s*`)
	newlinesRe = regexp.MustCompile(`\s*\n+\s*`)
)

// Sanitize strips prompt scaffolding, flattens newlines and guarantees
// terminal punctuation. Empty input stays empty.
func Sanitize(raw string) string {
	s := scaffoldRe.ReplaceAllString(raw, "")
	s = newlinesRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch {
	case strings.HasSuffix(s, "."), strings.HasSuffix(s, "!"), strings.HasSuffix(s, "?"),
		strings.HasSuffix(s, "।"), strings.HasSuffix(s, "॥"):
		return s
	}
	return s + "."
}

func short(s string) string {
	if r := []rune(s); len(r) > 180 {
		return string(r[:180]) + "..."
	}
	return s
}
