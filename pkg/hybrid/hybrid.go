// Package hybrid routes story requests between the model-backed engine and
// the rule-based engine, falling back to the latter when the model path is
// unavailable or fails. Callers see one contract either way.
package hybrid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"storymaker/pkg/story"
)

// Generator is the story contract both engines satisfy.
type Generator interface {
	GenerateStory(ctx context.Context, req story.Request) (*story.Story, error)
}

// Config sets the routing policy.
type Config struct {
	Preferred       story.Engine
	FallbackEnabled bool
	// Timeout bounds a single model generation; zero disables the bound.
	Timeout time.Duration
}

// Router selects and invokes an engine per request.
type Router struct {
	rule           Generator
	model          Generator
	modelAvailable bool
	fallback       bool
	timeout        time.Duration

	mu        sync.RWMutex
	preferred story.Engine
}

// New builds a router. modelAvailable is decided once, from the outcome of
// the model engine's initialization attempt; the router never re-probes.
func New(cfg Config, ruleEngine, modelEngine Generator, modelAvailable bool) *Router {
	preferred := cfg.Preferred
	if preferred == "" {
		preferred = story.EngineAuto
	}
	return &Router{
		rule:           ruleEngine,
		model:          modelEngine,
		modelAvailable: modelAvailable,
		fallback:       cfg.FallbackEnabled,
		timeout:        cfg.Timeout,
		preferred:      preferred,
	}
}

// SelectEngine resolves a requested engine to the concrete one that will
// serve. Rule-based is always honored; the model engine degrades to
// rule-based only when fallback is enabled.
func (r *Router) SelectEngine(requested story.Engine) (story.Engine, error) {
	switch requested {
	case story.EngineRuleBased:
		return story.EngineRuleBased, nil
	case story.EngineModel:
		if r.modelAvailable {
			return story.EngineModel, nil
		}
		if r.fallback {
			return story.EngineRuleBased, nil
		}
		return "", fmt.Errorf("%w: model engine requested without fallback", story.ErrEngineUnavailable)
	case "", story.EngineAuto:
		if r.modelAvailable {
			return story.EngineModel, nil
		}
		return story.EngineRuleBased, nil
	default:
		return "", story.Validationf("engine %q is not recognized (allowed: auto, model, rule-based)", requested)
	}
}

// GenerateStory serves one request. Model failures other than caller errors
// retry once against the rule-based engine when fallback is enabled; the
// rule-based path is never retried and never falls back to the model.
func (r *Router) GenerateStory(ctx context.Context, req story.Request) (*story.Story, error) {
	requested := req.Engine
	if requested == "" {
		requested = r.Preferred()
	}

	engine, err := r.SelectEngine(requested)
	if err != nil {
		return nil, err
	}
	if engine != story.EngineModel {
		return r.rule.GenerateStory(ctx, req)
	}

	modelCtx := ctx
	cancel := func() {}
	if r.timeout > 0 {
		modelCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	s, err := r.model.GenerateStory(modelCtx, req)
	cancel()
	if err == nil {
		return s, nil
	}

	// Caller errors fail identically on either engine; surface them as-is.
	var ve *story.ValidationError
	if errors.As(err, &ve) {
		return nil, err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s", story.ErrGenerationTimeout, r.timeout)
	}
	if !r.fallback {
		return nil, err
	}

	log.Warn("model generation failed, falling back to rule-based", "error", err)
	return r.rule.GenerateStory(ctx, req)
}

// GenerateVariations generates count stories sequentially. No deduplication
// is attempted; repeated outputs are possible by design.
func (r *Router) GenerateVariations(ctx context.Context, req story.Request, count int) ([]*story.Story, error) {
	if count <= 0 {
		count = 3
	}
	variations := make([]*story.Story, 0, count)
	for i := 0; i < count; i++ {
		s, err := r.GenerateStory(ctx, req)
		if err != nil {
			return nil, err
		}
		variations = append(variations, s)
	}
	return variations, nil
}

// Preferred returns the current default engine choice.
func (r *Router) Preferred() story.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.preferred
}

// SetPreferredEngine switches the default engine; unknown values are
// rejected.
func (r *Router) SetPreferredEngine(engine story.Engine) error {
	switch engine {
	case story.EngineAuto, story.EngineModel, story.EngineRuleBased:
	default:
		return story.Validationf("engine %q is not recognized (allowed: auto, model, rule-based)", engine)
	}
	r.mu.Lock()
	r.preferred = engine
	r.mu.Unlock()
	log.Info("preferred engine set", "engine", engine)
	return nil
}

// ModelAvailable reports whether the model engine initialized successfully.
func (r *Router) ModelAvailable() bool { return r.modelAvailable }

// FallbackEnabled reports whether model failures degrade to rule-based.
func (r *Router) FallbackEnabled() bool { return r.fallback }

// Status is the router's view for the status endpoint.
type Status struct {
	Initialized        bool         `json:"initialized"`
	ModelAvailable     bool         `json:"modelAvailable"`
	RuleBasedAvailable bool         `json:"ruleBasedAvailable"`
	PreferredEngine    story.Engine `json:"preferredEngine"`
	CurrentEngine      story.Engine `json:"currentEngine"`
	FallbackEnabled    bool         `json:"fallbackEnabled"`
}

// Status snapshots the routing state. CurrentEngine is what the preferred
// choice would resolve to right now; empty when it cannot be served.
func (r *Router) Status() Status {
	current, err := r.SelectEngine(r.Preferred())
	if err != nil {
		current = ""
	}
	return Status{
		Initialized:        true,
		ModelAvailable:     r.modelAvailable,
		RuleBasedAvailable: true,
		PreferredEngine:    r.Preferred(),
		CurrentEngine:      current,
		FallbackEnabled:    r.fallback,
	}
}
