package upload

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"picgo-mcp/internal/domain"
)

// InputSchema returns the argument schema of upload_image_via_picgo.
func InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			domain.ImagePathsField: {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: domain.ImagePathsDescription,
			},
		},
		Required: []string{domain.ImagePathsField},
	}
}

// Tool returns the MCP tool definition for upload_image_via_picgo.
func Tool() *mcp.Tool {
	return &mcp.Tool{
		Name:        domain.UploadToolName,
		Description: domain.UploadToolDescription,
		InputSchema: InputSchema(),
	}
}
