package intel

import (
	"context"
	"log/slog"
)

// Extractor pulls structured intelligence out of a single piece of text.
type Extractor interface {
	Extract(ctx context.Context, text string) (Intelligence, error)
}

// Engine is the two-tier extraction strategy: a primary extractor (LLM
// backed) whose result is accepted wholesale when it yields anything, and a
// deterministic fallback used when the primary errors or comes back empty.
type Engine struct {
	primary  Extractor
	fallback Extractor
}

// NewEngine builds an Engine. primary may be nil, in which case only the
// fallback runs.
func NewEngine(primary, fallback Extractor) *Engine {
	return &Engine{primary: primary, fallback: fallback}
}

// Extract analyzes text and merges everything found into prior, returning
// prior. It never fails: primary errors are swallowed and routed to the
// fallback path.
func (e *Engine) Extract(ctx context.Context, text string, prior Intelligence) Intelligence {
	if prior == nil {
		prior = Intelligence{}
	}
	if text == "" {
		return prior
	}

	if e.primary != nil {
		found, err := e.primary.Extract(ctx, text)
		if err != nil {
			slog.Debug("primary extractor failed, using fallback", "err", err)
		} else if found.HasValues() {
			prior.Merge(found)
			return prior
		}
	}

	if e.fallback != nil {
		found, err := e.fallback.Extract(ctx, text)
		if err == nil {
			prior.Merge(found)
		}
	}
	return prior
}
