package embedding

import "context"

// Embedder is the external embedding collaborator boundary. An
// implementation returns one fixed-dimensionality vector per input
// text; failures are plain errors and the similarity layer absorbs
// them into its neutral fallback.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
