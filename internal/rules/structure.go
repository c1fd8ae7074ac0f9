package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/begriplab/definitie-validator/internal/models"
)

var (
	repeatedPunctuation = regexp.MustCompile(`[!?.]{3,}`)
	markupRemnants      = regexp.MustCompile(`(?s)(<[a-zA-Z][^>]*>|\*\*|__|##|\{\{|\}\})`)
	bulletLine          = regexp.MustCompile(`(?m)^\s*([-*•]|\d+\.)\s`)
	doubleSpace         = regexp.MustCompile(`[ \t]{2,}`)
)

func evalEndsWithPeriod(in Input) models.RuleOutcome {
	t := strings.TrimSpace(in.Text)
	if strings.HasSuffix(t, ".") {
		return pass("definition ends with a period")
	}
	return fail(0.6, "definition does not end with a period")
}

func evalStartsCapitalized(in Input) models.RuleOutcome {
	t := strings.TrimSpace(in.Text)
	r := []rune(t)[0]
	if unicode.IsLetter(r) && !unicode.IsUpper(r) {
		return fail(0.6, "definition does not start with a capital letter")
	}
	return pass("definition starts with a capital letter")
}

func evalSentenceCount(in Input) models.RuleOutcome {
	n := len(sentences(in.Text))
	if n > 3 {
		return fail(0.5, fmt.Sprintf("definition contains %d sentences; a definition should be one compact statement", n))
	}
	return pass("sentence count is acceptable")
}

func evalMinLength(in Input) models.RuleOutcome {
	n := len(strings.Fields(in.Text))
	if n < 5 {
		return fail(0.2, fmt.Sprintf("definition has only %d words; too short to define a concept", n))
	}
	return pass("definition is long enough")
}

func evalMaxLength(in Input) models.RuleOutcome {
	n := len(strings.Fields(in.Text))
	if n > 80 {
		return fail(0.5, fmt.Sprintf("definition has %d words; definitions should stay under 80", n))
	}
	return pass("definition length is within bounds")
}

func evalSentenceLength(in Input) models.RuleOutcome {
	sents := sentences(in.Text)
	if len(sents) == 0 {
		return skip("no sentences to measure")
	}
	longest := 0
	for _, s := range sents {
		if n := len(strings.Fields(s)); n > longest {
			longest = n
		}
	}
	if longest > 40 {
		return fail(0.5, fmt.Sprintf("longest sentence has %d words; split sentences over 40 words", longest))
	}
	return pass("sentence length is readable")
}

func evalRepeatedPunctuation(in Input) models.RuleOutcome {
	if repeatedPunctuation.MatchString(in.Text) {
		return fail(0.5, "definition contains repeated punctuation")
	}
	return pass("punctuation is clean")
}

func evalMarkupRemnants(in Input) models.RuleOutcome {
	if m := markupRemnants.FindString(in.Text); m != "" {
		return fail(0.3, fmt.Sprintf("definition contains markup remnants (%q)", m))
	}
	return pass("no markup remnants")
}

func evalBullets(in Input) models.RuleOutcome {
	if bulletLine.MatchString(in.Text) {
		return fail(0.5, "definition contains a bullet or numbered list; use running text")
	}
	return pass("no list formatting")
}

func evalStartsWithArticle(in Input) models.RuleOutcome {
	toks := tokens(in.Text)
	if len(toks) == 0 {
		return skip("no tokens to inspect")
	}
	switch toks[0] {
	case "de", "het":
		return fail(0.7, fmt.Sprintf("definition starts with the definite article %q", toks[0]))
	}
	return pass("definition does not open with a definite article")
}

func evalStartsWithTerm(in Input) models.RuleOutcome {
	termToks := tokens(in.Term)
	if len(termToks) == 0 {
		return skip("no term to compare against")
	}
	textToks := tokens(in.Text)
	if len(textToks) >= len(termToks) {
		match := true
		for i, t := range termToks {
			if textToks[i] != t {
				match = false
				break
			}
		}
		if match {
			return fail(0.4, "definition starts by repeating the term")
		}
	}
	return pass("definition does not open with the term")
}

func evalAllCaps(in Input) models.RuleOutcome {
	letters, uppers := 0, 0
	for _, r := range in.Text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters > 10 && float64(uppers)/float64(letters) > 0.8 {
		return fail(0.3, "definition is written in (nearly) all capitals")
	}
	return pass("capitalization is normal")
}

func evalWhitespace(in Input) models.RuleOutcome {
	if doubleSpace.MatchString(in.Text) {
		return fail(0.8, "definition contains double spaces or tabs")
	}
	return pass("whitespace is clean")
}
