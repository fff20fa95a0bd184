// Package narrative delegates generation of human-readable briefs to an
// external text-generation service. Narrative output is presentation
// only: it never feeds back into scoring, deduplication, or ranking.
package narrative

import (
	"context"
	"fmt"

	"github.com/netpulse-io/netpulse/internal/model"
)

// Provider is the external text-generation collaborator
type Provider interface {
	// Name returns the provider name
	Name() string

	// Brief generates a short operations brief from pipeline output
	Brief(ctx context.Context, req BriefRequest) (*BriefResponse, error)
}

// BriefRequest is the input handed to the external service
type BriefRequest struct {
	Issues []model.RisingIssue
	CHI    *model.CHIResult
	// MaxTokens limits the response length; 0 uses the provider default
	MaxTokens int
}

// BriefResponse is the generated brief plus bookkeeping
type BriefResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// NewProvider builds a provider from configuration. An empty provider
// name means narrative generation is disabled and returns (nil, nil).
func NewProvider(cfg model.NarrativeConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown narrative provider: %s", cfg.Provider)
	}
}

// buildPrompt renders pipeline output into the generation prompt.
// The prompt constrains the model to the supplied numbers; it must not
// invent topics, counts, or causes.
func buildPrompt(req BriefRequest) string {
	prompt := `You are writing a short operations brief for a telecom support team.
Use ONLY the data below. Do not invent topics, counts, or causes.
Describe what is rising, how fast, and what the current happiness index is.
Keep it to 4-6 sentences.

`
	if req.CHI != nil {
		prompt += fmt.Sprintf("Current happiness index: %d/100 (%d signals, window %d minutes",
			req.CHI.Score, req.CHI.SignalCount, req.CHI.WindowMinutes)
		if req.CHI.ProductArea != "" {
			prompt += ", area " + req.CHI.ProductArea
		}
		prompt += ")\n"
	} else {
		prompt += "Current happiness index: no data\n"
	}

	if len(req.Issues) == 0 {
		prompt += "Rising issues: none\n"
	} else {
		prompt += "Rising issues (velocity = intensity growth per hour):\n"
		for i, issue := range req.Issues {
			prompt += fmt.Sprintf("%d. %q in %s: intensity %d, velocity %.1f/h, projected %.0f, est. %d users affected\n",
				i+1, issue.Topic, issue.ProductArea, issue.CurrentIntensity,
				issue.Velocity, issue.ProjectedIntensity, issue.EstimatedUsers)
		}
	}
	return prompt
}
