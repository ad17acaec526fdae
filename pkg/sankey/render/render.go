package render

import (
	"context"

	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey"
)

// Renderer persists a diagram model as a visual artifact. The pipeline
// only depends on this interface; tests substitute a recording stub.
type Renderer interface {
	Render(ctx context.Context, diagram *sankey.Diagram) error
}
