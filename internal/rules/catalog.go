package rules

import (
	"github.com/begriplab/definitie-validator/internal/models"
)

// Definition pairs a rule's default metadata with its evaluator. The rule set
// config may override weight, severity, tier and the blocking flag; the
// evaluator binding itself is fixed at compile time.
type Definition struct {
	Rule      models.Rule
	Evaluator Evaluator
}

func rule(code, description string, weight float64, sev models.Severity, tier models.PriorityTier, blocking bool, fn checkFunc) Definition {
	return Definition{
		Rule: models.Rule{
			Code:        code,
			Description: description,
			Weight:      weight,
			Severity:    sev,
			Tier:        tier,
			Blocking:    blocking || sev == models.SeverityCritical,
		},
		Evaluator: check{code: code, fn: fn},
	}
}

// Catalog returns the full static rule catalog. Rules are selected by code;
// there is no runtime discovery.
func Catalog() []Definition {
	const (
		crit = models.SeverityCritical
		maj  = models.SeverityMajor
		mod  = models.SeverityModerate
	)
	const (
		high = models.TierHigh
		med  = models.TierMedium
		low  = models.TierLow
	)

	return []Definition{
		// Validity
		rule("VAL-EMP-001", "definition text must not be empty", 5.0, crit, high, true, evalEmptyText),
		rule("VAL-TRM-001", "a term (begrip) must accompany the definition", 2.0, maj, high, false, textRule(evalTermPresent)),
		rule("VAL-CIR-001", "definition must not restate the term (circular definition)", 3.0, maj, high, true, textRule(evalCircular)),
		rule("VAL-CIR-002", "definition must add content beyond the term", 1.0, mod, med, false, textRule(evalNearCircular)),

		// Structure
		rule("STR-SEN-001", "definition ends with a period", 1.0, mod, med, false, textRule(evalEndsWithPeriod)),
		rule("STR-SEN-002", "definition starts with a capital letter", 1.0, mod, low, false, textRule(evalStartsCapitalized)),
		rule("STR-SEN-003", "definition is one compact statement", 1.0, mod, low, false, textRule(evalSentenceCount)),
		rule("STR-LEN-001", "definition has a minimum length", 3.0, maj, high, false, textRule(evalMinLength)),
		rule("STR-LEN-002", "definition has a maximum length", 1.0, mod, med, false, textRule(evalMaxLength)),
		rule("STR-LEN-003", "sentences stay readable", 1.0, mod, low, false, textRule(evalSentenceLength)),
		rule("STR-FMT-001", "no repeated punctuation", 1.0, mod, low, false, textRule(evalRepeatedPunctuation)),
		rule("STR-FMT-002", "no markup remnants", 2.0, maj, med, false, textRule(evalMarkupRemnants)),
		rule("STR-FMT-003", "no list formatting", 1.0, mod, low, false, textRule(evalBullets)),
		rule("STR-BEG-001", "definition does not open with a definite article", 1.0, mod, low, false, textRule(evalStartsWithArticle)),
		rule("STR-BEG-002", "definition does not open with the term", 2.0, maj, med, false, textRule(evalStartsWithTerm)),
		rule("STR-CAP-001", "definition is not written in all capitals", 1.0, mod, low, false, textRule(evalAllCaps)),
		rule("STR-SPA-001", "whitespace is clean", 0.5, mod, low, false, textRule(evalWhitespace)),

		// Language
		rule("TAA-PER-001", "no first or second person", 2.0, maj, med, false, textRule(evalPersonalPronouns)),
		rule("TAA-TMP-001", "present tense only", 1.0, mod, med, false, textRule(evalFutureTense)),
		rule("TAA-MOD-001", "no hedging modality", 1.0, mod, med, false, textRule(evalVagueModality)),
		rule("TAA-SUB-001", "no subjective qualifiers", 1.0, mod, med, false, textRule(evalSubjectiveWording)),
		rule("TAA-VAG-001", "no vague quantifiers", 1.0, mod, med, false, textRule(evalVagueQuantifiers)),
		rule("TAA-DUB-001", "no double negation", 1.0, mod, low, false, textRule(evalDoubleNegation)),
		rule("TAA-AFK-001", "abbreviations are expanded", 1.0, mod, med, false, textRule(evalAbbreviations)),
		rule("TAA-JAR-001", "no anglicisms", 1.0, mod, low, false, textRule(evalAnglicisms)),
		rule("TAA-TON-001", "definition describes, it does not prescribe", 2.0, maj, med, false, textRule(evalNormativeWording)),
		rule("TAA-WRD-001", "no excessive word repetition", 1.0, mod, low, false, textRule(evalWordRepetition)),

		// Juridical
		rule("JUR-REF-001", "statute references are well-formed", 1.0, mod, med, false, textRule(evalStatuteRefFormat)),
		rule("JUR-REF-002", "statutory basis is referenced when known", 1.0, mod, med, false, textRule(evalStatutoryBasisUsed)),
		rule("JUR-TRM-001", "definition connects to its legal domain", 1.0, mod, med, false, textRule(evalLegalDomainTerms)),
		rule("JUR-ORG-001", "responsible organization is named when known", 1.0, mod, low, false, textRule(evalOrganizationalContext)),
		rule("JUR-DEF-001", "no definition boilerplate", 1.0, mod, low, false, textRule(evalDefinitionBoilerplate)),
		rule("JUR-WET-001", "statutes are named explicitly", 1.0, mod, med, false, textRule(evalUnnamedStatute)),
		rule("JUR-PRI-001", "no personal data in definitions", 5.0, crit, high, true, textRule(evalPersonalData)),

		// Content
		rule("INH-GEN-001", "definition names a broader category (genus)", 3.0, maj, med, false, textRule(evalGenus)),
		rule("INH-DIF-001", "definition has a distinguishing clause (differentia)", 3.0, maj, med, false, textRule(evalDifferentia)),
		rule("INH-NEG-001", "definition is stated positively", 2.0, maj, med, false, textRule(evalNegativeDefinition)),
		rule("INH-SYN-001", "definition is more than a synonym", 2.0, maj, med, false, textRule(evalSynonymOnly)),
		rule("INH-ESS-001", "definition states essence, not examples", 1.0, mod, low, false, textRule(evalExamplesAsEssence)),
		rule("INH-AMB-001", "no ambiguous alternative stacking", 1.0, mod, low, false, textRule(evalAmbiguousAlternatives)),
		rule("INH-TIJ-001", "definition is time-independent", 1.0, mod, med, false, textRule(evalTimeBoundWording)),
		rule("INH-FUT-001", "definition describes the present state", 1.0, mod, low, false, textRule(evalFutureState)),
		rule("INH-CTX-001", "definition reflects its category", 1.0, mod, low, false, textRule(evalCategoryConsistency)),

		// Reference-architecture terminology
		rule("NOR-TRM-001", "terminology follows NORA preferences", 1.0, mod, low, false, textRule(evalPreferredTerminology)),
		rule("NOR-TRM-002", "definition is implementation-neutral (ASTRA)", 1.0, mod, low, false, textRule(evalImplementationNeutral)),
	}
}
