package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/begriplab/definitie-validator/internal/models"
)

var dutchStopwords = map[string]bool{
	"de": true, "het": true, "een": true, "en": true, "van": true,
	"voor": true, "door": true, "met": true, "aan": true, "bij": true,
	"die": true, "dat": true, "is": true, "zijn": true, "wordt": true,
	"worden": true, "op": true, "in": true, "tot": true, "als": true,
	"of": true, "om": true, "te": true, "naar": true, "uit": true,
}

func evalPersonalPronouns(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text),
		"ik", "wij", "we", "ons", "onze", "mijn",
		"u", "uw", "je", "jij", "jou", "jouw", "jullie"); ok {
		return fail(0.3, fmt.Sprintf("definition addresses the reader or writer (%q); definitions are impersonal", w))
	}
	return pass("no first or second person wording")
}

func evalFutureTense(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "zal", "zullen", "zult"); ok {
		return fail(0.5, fmt.Sprintf("definition uses future tense (%q); define in present tense", w))
	}
	return pass("definition is in present tense")
}

func evalVagueModality(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "mogelijk", "wellicht", "misschien", "eventueel", "vermoedelijk"); ok {
		return fail(0.5, fmt.Sprintf("definition hedges with %q; a definition states what something is", w))
	}
	return pass("no hedging modality")
}

func evalSubjectiveWording(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "mooi", "goed", "slecht", "belangrijk", "eenvoudig", "makkelijk", "moeilijk", "interessant"); ok {
		return fail(0.5, fmt.Sprintf("definition contains the subjective qualifier %q", w))
	}
	return pass("wording is neutral")
}

func evalVagueQuantifiers(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "enkele", "sommige", "veel", "weinig", "diverse", "verschillende", "meerdere"); ok {
		return fail(0.6, fmt.Sprintf("definition uses the vague quantifier %q", w))
	}
	return pass("no vague quantifiers")
}

var doubleNegation = regexp.MustCompile(`(?i)\bniet\s+\w*on\w+|\bgeen\b.*\bniet\b|\bniet\b.*\bgeen\b`)

func evalDoubleNegation(in Input) models.RuleOutcome {
	if doubleNegation.MatchString(in.Text) {
		return fail(0.5, "definition contains a double negation")
	}
	return pass("no double negation")
}

var abbreviation = regexp.MustCompile(`\b[A-Z]{2,}\b`)

// Abbreviations that need no expansion in justice-domain texts.
var knownAbbreviations = map[string]bool{
	"EU": true, "BV": true, "NV": true,
}

func evalAbbreviations(in Input) models.RuleOutcome {
	for _, abbr := range abbreviation.FindAllString(in.Text, -1) {
		if knownAbbreviations[abbr] {
			continue
		}
		// An expansion in parentheses next to the abbreviation is fine.
		if strings.Contains(in.Text, abbr+" (") || strings.Contains(in.Text, "("+abbr+")") {
			continue
		}
		return fail(0.6, fmt.Sprintf("abbreviation %q is not expanded", abbr))
	}
	return pass("no unexplained abbreviations")
}

func evalAnglicisms(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "checken", "updaten", "compliant", "framework", "tool", "management", "stakeholder"); ok {
		return fail(0.6, fmt.Sprintf("definition uses the anglicism %q; prefer a Dutch equivalent", w))
	}
	return pass("no anglicisms")
}

func evalNormativeWording(in Input) models.RuleOutcome {
	if w, ok := containsWord(tokens(in.Text), "moet", "moeten", "dient", "dienen", "verplicht", "behoort"); ok {
		return fail(0.4, fmt.Sprintf("definition prescribes (%q); a definition describes, it does not oblige", w))
	}
	return pass("definition is descriptive")
}

func evalWordRepetition(in Input) models.RuleOutcome {
	counts := map[string]int{}
	for _, t := range tokens(in.Text) {
		if len(t) > 3 && !dutchStopwords[t] {
			counts[t]++
		}
	}
	// Report the most repeated word; ties go to the lexicographically
	// smallest so the message is stable across calls.
	var worst string
	for w, n := range counts {
		if n < 4 {
			continue
		}
		if worst == "" || n > counts[worst] || (n == counts[worst] && w < worst) {
			worst = w
		}
	}
	if worst != "" {
		return fail(0.6, fmt.Sprintf("word %q is repeated %d times", worst, counts[worst]))
	}
	return pass("no excessive word repetition")
}
