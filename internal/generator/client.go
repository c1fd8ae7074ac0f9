package generator

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/begriplab/definitie-validator/internal/models"
)

// Request asks for a candidate definition of a term.
type Request struct {
	Term     string
	Category string
	Context  *models.EvaluationContext
}

// Client produces a candidate definition text. The validation engine never
// calls back into it; generation is an upstream collaborator.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

const promptTemplate = `Je bent een begrippenredacteur voor de Nederlandse overheid.
Schrijf een definitie van het begrip "{{.Term}}"{{if .Category}} (categorie: {{.Category}}){{end}}.

Eisen:
- Eén compacte zin die met een categorie (genus) opent en het begrip onderscheidt.
- Geen toekomstige tijd, geen eerste of tweede persoon, geen voorbeelden.
- Herhaal het begrip zelf niet in de definitie.
{{- if .Organizations}}
- Relevante organisaties: {{.Organizations}}.
{{- end}}
{{- if .StatutoryBases}}
- Wettelijke grondslag: {{.StatutoryBases}}.
{{- end}}

Antwoord uitsluitend met de definitietekst.`

var prompt = template.Must(template.New("definition").Parse(promptTemplate))

// BuildPrompt renders the generation prompt for a request.
func BuildPrompt(req Request) (string, error) {
	data := struct {
		Term           string
		Category       string
		Organizations  string
		StatutoryBases string
	}{
		Term:     req.Term,
		Category: req.Category,
	}
	if req.Context != nil {
		data.Organizations = strings.Join(req.Context.OrganizationalContext, ", ")
		data.StatutoryBases = strings.Join(req.Context.StatutoryBases, ", ")
	}

	var buf bytes.Buffer
	if err := prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render generation prompt: %w", err)
	}
	return buf.String(), nil
}
