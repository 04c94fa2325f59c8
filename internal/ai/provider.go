// Package ai talks to an OpenAI-compatible model endpoint for the tag,
// caption, and embedding calls that enrichment and search depend on.
package ai

import "context"

// TagSuggester proposes tags for an item from its text and images.
// The returned string is the raw model output; callers sanitize it.
type TagSuggester interface {
	SuggestTags(ctx context.Context, title, description string, imageURLs []string) (string, error)
}

// Captioner describes an image in one short sentence.
type Captioner interface {
	CaptionImage(ctx context.Context, imageURL string) (string, error)
}

// Embedder converts text into a dense vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Provider bundles the model capabilities the server uses.
type Provider interface {
	TagSuggester
	Captioner
	Embedder
}
