package upload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"picgo-mcp/internal/domain"
)

const (
	opValidate = "upload.validate"

	invalidArgumentsMessage = "Invalid arguments for " + domain.UploadToolName + ". Expected { " + domain.ImagePathsField + ": string[] }."
	emptyPathsMessage       = "Invalid arguments for " + domain.UploadToolName + ". " + domain.ImagePathsField + " must contain at least one path."
)

type uploadArgs struct {
	ImagePaths []string `json:"image_paths"`
}

// Validator checks raw tool arguments against the tool input schema.
type Validator struct {
	schema *jsonschema.Resolved
}

func NewValidator() (*Validator, error) {
	resolved, err := InputSchema().Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve input schema: %w", err)
	}
	return &Validator{schema: resolved}, nil
}

// Validate turns raw arguments into an UploadRequest or an INVALID_PARAMS error.
func (v *Validator) Validate(raw json.RawMessage) (domain.UploadRequest, error) {
	raw = bytes.TrimSpace(raw)

	var instance any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &instance); err != nil {
			return domain.UploadRequest{}, invalidArguments(err)
		}
	}
	if err := v.schema.Validate(instance); err != nil {
		return domain.UploadRequest{}, invalidArguments(err)
	}

	var args uploadArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return domain.UploadRequest{}, invalidArguments(err)
	}
	if len(args.ImagePaths) == 0 {
		return domain.UploadRequest{}, domain.E(domain.CodeInvalidParams, opValidate, emptyPathsMessage, domain.ErrEmptyPaths)
	}
	return domain.UploadRequest{Paths: args.ImagePaths}, nil
}

func invalidArguments(cause error) error {
	return domain.E(domain.CodeInvalidParams, opValidate, invalidArgumentsMessage, fmt.Errorf("%w: %w", domain.ErrInvalidArguments, cause))
}
