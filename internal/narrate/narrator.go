// Package narrate turns structured plan facts into a short
// human-readable rationale. Narration is presentation only: it never
// feeds back into scoring or levels.
package narrate

import (
	"context"

	"github.com/rs/zerolog"

	"trade-planner/internal/config"
	"trade-planner/internal/models"
)

// Narrator renders a rationale from the structured inputs attached to
// a plan candidate.
type Narrator interface {
	Narrate(ctx context.Context, in models.RationaleInputs) (string, error)
	Name() string
}

// FromConfig selects a narrator. LLM mode without an API key degrades
// to the template narrator.
func FromConfig(cfg config.NarratorConfig, logger zerolog.Logger) Narrator {
	if cfg.Mode == "llm" && cfg.APIKey != "" {
		return NewLLMNarrator(cfg.APIKey, cfg.Model, logger)
	}
	return NewTemplateNarrator()
}
