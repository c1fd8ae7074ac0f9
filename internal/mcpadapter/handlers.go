package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/orchestrator"
)

// ValidateInput is the MCP tool input schema for full validation.
type ValidateInput struct {
	Term     string `json:"term" jsonschema:"the begrip being defined"`
	Text     string `json:"text" jsonschema:"the candidate definition text"`
	Category string `json:"category,omitempty" jsonschema:"optional category of the term"`
}

// ValidateDefinitionInput validates a complete definition object.
type ValidateDefinitionInput struct {
	Definition models.Definition `json:"definition" jsonschema:"the definition to validate"`
}

// NewValidateTextHandler returns a tool handler that validates a definition
// text through the full rule pipeline. Pass the returned function to
// mcp.AddTool.
func NewValidateTextHandler(o *orchestrator.Orchestrator) func(context.Context, *mcp.CallToolRequest, ValidateInput) (*mcp.CallToolResult, models.ValidationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, models.ValidationResult, error) {
		result := o.ValidateText(ctx, input.Term, input.Text, input.Category, nil)
		return nil, result, nil
	}
}

// NewValidateDefinitionHandler returns a tool handler for definition objects.
func NewValidateDefinitionHandler(o *orchestrator.Orchestrator) func(context.Context, *mcp.CallToolRequest, ValidateDefinitionInput) (*mcp.CallToolResult, models.ValidationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateDefinitionInput) (*mcp.CallToolResult, models.ValidationResult, error) {
		result := o.ValidateDefinition(ctx, input.Definition, nil)
		return nil, result, nil
	}
}
