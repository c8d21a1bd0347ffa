package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for format-specific data binding. It is the
// bridge between raw plugin settings and the Go structs plugins declare.
type Converter interface {
	// DecodeBody decodes a raw configuration body into target, which must
	// be a non-nil pointer to a struct.
	DecodeBody(ctx context.Context, body hcl.Body, evalCtx *hcl.EvalContext, target any) error

	// ToCtyValue converts a native Go value into its equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}
