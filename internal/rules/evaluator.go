package rules

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/begriplab/definitie-validator/internal/models"
)

// Input is the per-request view an evaluator sees: the candidate text, the
// term it defines and the optional enrichment context. Evaluators must not
// retain or mutate it.
type Input struct {
	Term     string
	Text     string
	Category string
	Context  *models.EvaluationContext
}

// Evaluator is the single capability every rule implements. Implementations
// are stateless and pure: same input, same outcome.
type Evaluator interface {
	Code() string
	Evaluate(ctx context.Context, in Input) models.RuleOutcome
}

type checkFunc func(in Input) models.RuleOutcome

// check adapts a plain function to the Evaluator interface. All catalog rules
// are built this way; there is no type hierarchy among rules.
type check struct {
	code string
	fn   checkFunc
}

func (c check) Code() string { return c.code }

func (c check) Evaluate(_ context.Context, in Input) models.RuleOutcome {
	start := time.Now()
	out := c.fn(in)
	out.RuleCode = c.code
	out.Duration = time.Since(start)
	return out
}

func pass(msg string) models.RuleOutcome {
	return models.RuleOutcome{Score: 1.0, Message: msg}
}

func fail(score float64, msg string) models.RuleOutcome {
	return models.RuleOutcome{Score: score, Triggered: true, Message: msg}
}

func skip(msg string) models.RuleOutcome {
	return models.RuleOutcome{Skipped: true, Message: msg}
}

// Tokenization helpers shared by the catalog.

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			return r
		}
		return ' '
	}, s)
}

func tokens(s string) []string {
	return strings.Fields(stripPunctuation(normalize(s)))
}

func tokenSet(toks []string) map[string]bool {
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}

func sentences(s string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range s {
		cur.WriteRune(r)
		if r == '.' || r == '?' || r == '!' {
			if t := strings.TrimSpace(cur.String()); t != "" {
				out = append(out, t)
			}
			cur.Reset()
		}
	}
	if t := strings.TrimSpace(cur.String()); t != "" {
		out = append(out, t)
	}
	return out
}

// containsWord reports whether any of the given words occurs as a whole token.
func containsWord(toks []string, words ...string) (string, bool) {
	set := tokenSet(toks)
	for _, w := range words {
		if set[w] {
			return w, true
		}
	}
	return "", false
}
