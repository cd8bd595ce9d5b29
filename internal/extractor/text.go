package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ramkansal/brandscan/internal/config"
	"github.com/ramkansal/brandscan/internal/state"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TextAnalyzer builds keyword and bigram tables from visible text and
// collects call-to-action texts from interactive elements.
type TextAnalyzer struct {
	stopWords config.WordSet
	phrases   []string
}

func NewTextAnalyzer(stopWords, ctaPhrases config.WordSet) *TextAnalyzer {
	return &TextAnalyzer{stopWords: stopWords, phrases: ctaPhrases.Sorted()}
}

func (e *TextAnalyzer) Name() string { return "text" }

const textProbeJS = `() => {
	const sel = 'a, button, input[type="button"], input[type="submit"], input[type="reset"]';
	const interactive = Array.from(document.querySelectorAll(sel))
		.map(el => (el.innerText || el.getAttribute('aria-label') || el.value || '').trim())
		.filter(t => t.length > 0);
	return { text: document.body ? document.body.innerText : '', interactive };
}`

type textProbe struct {
	Text        string   `json:"text"`
	Interactive []string `json:"interactive"`
}

func (e *TextAnalyzer) Extract(pc *PageContext, st *state.AggregateState) error {
	var probe textProbe
	if err := pc.Page.Evaluate(textProbeJS, &probe); err != nil {
		return err
	}
	e.apply(probe, st.BrandElements)
	return nil
}

func (e *TextAnalyzer) apply(probe textProbe, b *state.BrandElements) {
	b.AddTokens(Tokenize(probe.Text, e.stopWords))

	for _, t := range probe.Interactive {
		if cta, ok := MatchCTA(t, e.phrases); ok {
			b.AddCTA(cta)
		}
	}
}

var (
	nonAlnumRuns = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Tokenize lowercases text, turns every non-alphanumeric run into a space
// and drops tokens of two runes or fewer and stop words.
func Tokenize(text string, stopWords config.WordSet) []string {
	cleaned := nonAlnumRuns.ReplaceAllString(toLower(text), " ")
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) <= 2 || stopWords.Has(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// NormalizeCTA trims, collapses whitespace and lowercases element text.
func NormalizeCTA(text string) string {
	return toLower(strings.TrimSpace(spaceRuns.ReplaceAllString(text, " ")))
}

// MatchCTA returns the normalized text when it contains any of the
// (lowercased) phrases.
func MatchCTA(text string, phrases []string) (string, bool) {
	norm := NormalizeCTA(text)
	if norm == "" {
		return "", false
	}
	for _, p := range phrases {
		if p != "" && strings.Contains(norm, p) {
			return norm, true
		}
	}
	return "", false
}

// toLower uses a fresh Caser per call; Casers keep state and are not safe to share.
func toLower(s string) string {
	return cases.Lower(language.Und).String(s)
}
