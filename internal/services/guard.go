package services

import (
	"strings"
	"unicode"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

// DefaultDenyList is matched case-insensitively as substrings.
var DefaultDenyList = []string{
	"fuck",
	"shit",
	"bitch",
	"bastard",
	"asshole",
	"cunt",
	"slut",
	"whore",
	"retard",
	"kill yourself",
}

// DefaultCrisisPhrases trigger the support response instead of publishing.
var DefaultCrisisPhrases = []string{
	"i want to die",
	"i don't want to live",
	"kill myself",
	"end my life",
	"suicide",
}

const (
	postSupportMessage    = "If you're feeling overwhelmed or unsafe, please seek immediate professional help."
	commentSupportMessage = "If you're in crisis, please seek professional support immediately."
)

// GuardResult is the non-error outcome of a guard check.
type GuardResult struct {
	Crisis         bool
	SupportMessage string
}

// ContentGuard runs the pre-publication checks. It never touches storage.
type ContentGuard struct {
	denyList      []string
	crisisPhrases []string
}

func NewContentGuard(denyList, crisisPhrases []string) *ContentGuard {
	g := &ContentGuard{}
	for _, w := range denyList {
		g.denyList = append(g.denyList, strings.ToLower(w))
	}
	for _, p := range crisisPhrases {
		g.crisisPhrases = append(g.crisisPhrases, foldText(p))
	}
	return g
}

// Check rejects prohibited text with ErrProhibitedContent. Otherwise it reports
// whether the text is a crisis signal; crisis text must not be persisted.
// The profanity check always runs first.
func (g *ContentGuard) Check(kind models.ContentKind, text string) (GuardResult, error) {
	if g.IsProhibited(text) {
		guardVerdicts.WithLabelValues("prohibited").Inc()
		return GuardResult{}, ErrProhibitedContent
	}
	if g.IsCrisis(text) {
		guardVerdicts.WithLabelValues("crisis").Inc()
		msg := postSupportMessage
		if kind == models.KindComment {
			msg = commentSupportMessage
		}
		return GuardResult{Crisis: true, SupportMessage: msg}, nil
	}
	guardVerdicts.WithLabelValues("allowed").Inc()
	return GuardResult{}, nil
}

// IsProhibited matches the deny list against the lowercase text and against its
// de-obfuscated form, so "sh1t" and "f.u.c.k" style spellings are caught too.
func (g *ContentGuard) IsProhibited(text string) bool {
	lower := strings.ToLower(text)
	cleaned := CleanText(text)
	squashed := strings.ReplaceAll(cleaned, " ", "")
	for _, w := range g.denyList {
		if strings.Contains(lower, w) || strings.Contains(cleaned, w) {
			return true
		}
		if !strings.Contains(w, " ") && strings.Contains(squashed, w) && isSpelledOut(cleaned) {
			return true
		}
	}
	return false
}

// IsCrisis reports whether text contains a crisis phrase.
func (g *ContentGuard) IsCrisis(text string) bool {
	folded := foldText(text)
	for _, p := range g.crisisPhrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// foldText lowercases, unifies apostrophes and collapses whitespace.
func foldText(text string) string {
	text = strings.ToLower(text)
	text = strings.NewReplacer("’", "'", "‘", "'", "`", "'").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

var obfuscation = strings.NewReplacer(
	"@", "a",
	"4", "a",
	"3", "e",
	"!", "i",
	"1", "i",
	"0", "o",
	"$", "s",
	"5", "s",
	"7", "t",
	"+", "t",
	"а", "a", // Cyrillic
	"е", "e", // Cyrillic
	"і", "i", // Cyrillic
	"о", "o", // Cyrillic
	"р", "p", // Cyrillic
)

// CleanText lowercases text, maps look-alike characters to letters and turns
// every other non-letter into a single space.
func CleanText(text string) string {
	cleaned := obfuscation.Replace(strings.ToLower(text))

	var b strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// isSpelledOut reports whether most tokens are single letters, as in "f u c k".
func isSpelledOut(cleaned string) bool {
	fields := strings.Fields(cleaned)
	if len(fields) < 3 {
		return false
	}
	single := 0
	for _, f := range fields {
		if len([]rune(f)) == 1 {
			single++
		}
	}
	return single*2 > len(fields)
}
