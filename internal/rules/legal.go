package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/begriplab/definitie-validator/internal/models"
)

var (
	statuteRef = regexp.MustCompile(`(?i)\bartikel\s+\d+[a-z]?\b`)
	bareWet    = regexp.MustCompile(`(?i)\bde wet\b`)
	bsnLike    = regexp.MustCompile(`\b\d{9}\b`)
)

// evalStatuteRefFormat accepts "artikel 5", "artikel 12a lid 2"; a bare
// "artikel" without a number is an incomplete reference.
func evalStatuteRefFormat(in Input) models.RuleOutcome {
	lower := strings.ToLower(in.Text)
	if !strings.Contains(lower, "artikel") {
		return skip("definition contains no statute reference")
	}
	if statuteRef.MatchString(in.Text) {
		return pass("statute references are well-formed")
	}
	return fail(0.4, "statute reference without an article number")
}

func evalStatutoryBasisUsed(in Input) models.RuleOutcome {
	if in.Context == nil || len(in.Context.StatutoryBases) == 0 {
		return skip("no statutory basis supplied")
	}
	lower := strings.ToLower(in.Text)
	for _, basis := range in.Context.StatutoryBases {
		if basis != "" && strings.Contains(lower, strings.ToLower(basis)) {
			return pass(fmt.Sprintf("definition references its statutory basis (%q)", basis))
		}
	}
	return fail(0.6, "none of the known statutory bases is referenced")
}

func evalLegalDomainTerms(in Input) models.RuleOutcome {
	if in.Context == nil || len(in.Context.LegalDomainContext) == 0 {
		return skip("no legal-domain context supplied")
	}
	textSet := tokenSet(tokens(in.Text))
	for _, domain := range in.Context.LegalDomainContext {
		for _, t := range tokens(domain) {
			if len(t) > 3 && textSet[t] {
				return pass("definition connects to its legal domain")
			}
		}
	}
	return fail(0.5, "definition shares no terminology with its legal domain")
}

func evalOrganizationalContext(in Input) models.RuleOutcome {
	if in.Context == nil || len(in.Context.OrganizationalContext) == 0 {
		return skip("no organizational context supplied")
	}
	lower := strings.ToLower(in.Text)
	for _, org := range in.Context.OrganizationalContext {
		if org != "" && strings.Contains(lower, strings.ToLower(org)) {
			return pass(fmt.Sprintf("definition names the responsible organization (%q)", org))
		}
	}
	return fail(0.7, "definition names none of the organizations in scope")
}

func evalDefinitionBoilerplate(in Input) models.RuleOutcome {
	if strings.Contains(strings.ToLower(in.Text), "wordt verstaan onder") {
		return fail(0.6, `definition contains the boilerplate "wordt verstaan onder"`)
	}
	return pass("no definition boilerplate")
}

func evalUnnamedStatute(in Input) models.RuleOutcome {
	if bareWet.MatchString(in.Text) {
		return fail(0.6, `definition refers to "de wet" without naming which act`)
	}
	return pass("statutes are named explicitly")
}

func evalPersonalData(in Input) models.RuleOutcome {
	if bsnLike.MatchString(in.Text) {
		return fail(0.0, "definition contains a BSN-like 9-digit number")
	}
	return pass("no personal data patterns")
}
