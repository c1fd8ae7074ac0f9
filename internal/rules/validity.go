package rules

import (
	"fmt"
	"strings"

	"github.com/begriplab/definitie-validator/internal/models"
)

// textRule wraps a check so it reports not-applicable on empty input. Only the
// empty-text rule itself evaluates empty input; this keeps the empty-text
// score at exactly 0.0 instead of diluting it with sibling outcomes.
func textRule(fn checkFunc) checkFunc {
	return func(in Input) models.RuleOutcome {
		if strings.TrimSpace(in.Text) == "" {
			return skip("no definition text to evaluate")
		}
		return fn(in)
	}
}

func evalEmptyText(in Input) models.RuleOutcome {
	if strings.TrimSpace(in.Text) == "" {
		return fail(0.0, "definition text is empty")
	}
	return pass("definition text is present")
}

func evalTermPresent(in Input) models.RuleOutcome {
	if strings.TrimSpace(in.Term) == "" {
		return fail(0.0, "no term (begrip) supplied for the definition")
	}
	return pass("term is present")
}

// evalCircular flags definitions that restate the term instead of defining it.
// With a known term, any content token of the term reappearing in the text
// counts as circular. Without a term the first content token of the text is
// used as a stand-in (catches "Belasting is belasting.").
func evalCircular(in Input) models.RuleOutcome {
	textToks := tokens(in.Text)
	if len(textToks) == 0 {
		return skip("no tokens to inspect")
	}

	termToks := tokens(in.Term)
	if len(termToks) > 0 {
		set := tokenSet(textToks)
		for _, t := range termToks {
			if len(t) > 2 && set[t] {
				return fail(0.2, fmt.Sprintf("definition uses the term itself (%q)", t))
			}
		}
		return pass("definition does not restate the term")
	}

	head := textToks[0]
	if len(head) > 2 {
		for _, t := range textToks[1:] {
			if t == head {
				return fail(0.2, fmt.Sprintf("definition circles back to its own subject (%q)", head))
			}
		}
	}
	return pass("definition does not restate the term")
}

// evalNearCircular measures how much of the definition is just term tokens.
func evalNearCircular(in Input) models.RuleOutcome {
	termToks := tokens(in.Term)
	if len(termToks) == 0 {
		return skip("no term to compare against")
	}
	textToks := tokens(in.Text)
	if len(textToks) == 0 {
		return skip("no tokens to inspect")
	}

	termSet := tokenSet(termToks)
	overlap := 0
	for _, t := range textToks {
		if termSet[t] {
			overlap++
		}
	}
	ratio := float64(overlap) / float64(len(textToks))
	if ratio > 0.5 {
		return fail(0.4, fmt.Sprintf("definition consists mostly of the term itself (%.0f%% overlap)", ratio*100))
	}
	return pass("definition adds content beyond the term")
}
