// Package resume turns raw resume text into a query embedding.
package resume

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/jobsense/internal/embedding"
)

// MinTextLength is the minimum resume text length worth embedding.
const MinTextLength = 10

// ErrTextTooShort indicates the resume text cannot produce a meaningful
// embedding.
var ErrTextTooShort = errors.New("resume text is too short or invalid")

// Processor validates resume text and delegates to the embedding client.
type Processor struct {
	embedder embedding.Client
}

// NewProcessor builds a processor over the given embedding client.
func NewProcessor(embedder embedding.Client) *Processor {
	return &Processor{embedder: embedder}
}

// EmbedText embeds the resume text after validating it.
func (p *Processor) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) < MinTextLength {
		return nil, ErrTextTooShort
	}
	return p.embedder.Embed(ctx, text)
}
