package rules

import (
	"fmt"
	"strings"

	"github.com/begriplab/definitie-validator/internal/models"
)

// evalGenus checks the classic genus-differentia form: the first sentence
// should place the term in a broader category, normally introduced with an
// indefinite article ("... is een besluit dat ...").
func evalGenus(in Input) models.RuleOutcome {
	sents := sentences(in.Text)
	if len(sents) == 0 {
		return skip("no sentences to inspect")
	}
	toks := tokens(sents[0])
	if len(toks) == 0 {
		return skip("no tokens to inspect")
	}
	if toks[0] == "een" {
		return pass("definition opens with a category")
	}
	for _, t := range toks {
		if t == "een" {
			return pass("definition places the term in a broader category")
		}
	}
	return fail(0.4, "definition does not name a broader category (genus)")
}

func evalDifferentia(in Input) models.RuleOutcome {
	if _, ok := containsWord(tokens(in.Text), "die", "dat", "waarbij", "waarmee", "waardoor", "welke"); ok {
		return pass("definition distinguishes the term from its category")
	}
	return fail(0.4, "definition lacks a distinguishing clause (differentia)")
}

func evalNegativeDefinition(in Input) models.RuleOutcome {
	lower := strings.ToLower(in.Text)
	if strings.Contains(lower, " is niet ") || strings.Contains(lower, " is geen ") {
		return fail(0.3, "definition says what the term is not instead of what it is")
	}
	return pass("definition is stated positively")
}

func evalSynonymOnly(in Input) models.RuleOutcome {
	toks := tokens(in.Text)
	content := 0
	for _, t := range toks {
		if !dutchStopwords[t] {
			content++
		}
	}
	if content <= 2 {
		return fail(0.2, "definition is a bare synonym, not a definition")
	}
	if _, ok := containsWord(toks, "synoniem"); ok {
		return fail(0.4, "definition defers to a synonym")
	}
	return pass("definition is more than a synonym")
}

func evalExamplesAsEssence(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "bijvoorbeeld", "zoals", "enzovoort", "etc"); ok {
		return fail(0.6, fmt.Sprintf("definition leans on examples (%q) instead of essence", w))
	}
	return pass("definition states essence, not examples")
}

func evalAmbiguousAlternatives(in Input) models.RuleOutcome {
	count := 0
	for _, t := range tokens(in.Text) {
		if t == "of" {
			count++
		}
	}
	if count >= 3 {
		return fail(0.5, fmt.Sprintf("definition stacks %d alternatives; pick the defining one", count))
	}
	return pass("no ambiguous alternative stacking")
}

func evalTimeBoundWording(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "huidige", "nieuwe", "recente", "binnenkort", "thans", "tegenwoordig"); ok {
		return fail(0.6, fmt.Sprintf("definition is time-bound (%q); definitions should hold over time", w))
	}
	return pass("definition is time-independent")
}

func evalFutureState(in Input) models.RuleOutcome {
	lower := strings.ToLower(in.Text)
	if strings.Contains(lower, "zal worden") || strings.Contains(lower, "toekomstige") {
		return fail(0.6, "definition describes a future state")
	}
	return pass("definition describes the present state")
}

func evalCategoryConsistency(in Input) models.RuleOutcome {
	if strings.TrimSpace(in.Category) == "" {
		return skip("no category supplied")
	}
	textSet := tokenSet(tokens(in.Text))
	for _, t := range tokens(in.Category) {
		if len(t) > 3 && textSet[t] {
			return pass("definition reflects its category")
		}
	}
	return fail(0.7, fmt.Sprintf("definition does not reflect its category %q", in.Category))
}

// NORA/ASTRA terminology preferences; tracked as metadata compliance, the
// engine only flags discouraged informal wording.
func evalPreferredTerminology(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "dingen", "spullen", "iets", "stuff"); ok {
		return fail(0.6, fmt.Sprintf("informal wording %q; use reference-architecture terminology", w))
	}
	return pass("terminology follows reference architecture")
}

func evalImplementationNeutral(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "applicatie", "systeem", "database", "formulier", "website"); ok {
		return fail(0.6, fmt.Sprintf("definition is implementation-bound (%q); define the concept, not the system", w))
	}
	return pass("definition is implementation-neutral")
}
