package hybrid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaker/pkg/story"
)

// stubGenerator returns a fixed story, a fixed error, or blocks until the
// context expires.
type stubGenerator struct {
	engine story.Engine
	err    error
	block  bool
	calls  int
}

func (s *stubGenerator) GenerateStory(ctx context.Context, req story.Request) (*story.Story, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &story.Story{
		ID:      "test",
		Content: "content",
		Engine:  s.engine,
		Genre:   req.Genre,
	}, nil
}

func newTestRouter(cfg Config, modelAvailable bool, ruleStub, modelStub *stubGenerator) *Router {
	return New(cfg, ruleStub, modelStub, modelAvailable)
}

func TestSelectEngine(t *testing.T) {
	tests := []struct {
		name           string
		requested      story.Engine
		modelAvailable bool
		fallback       bool
		want           story.Engine
		wantErr        error
	}{
		{"rule-based always honored", story.EngineRuleBased, true, true, story.EngineRuleBased, nil},
		{"rule-based without model", story.EngineRuleBased, false, false, story.EngineRuleBased, nil},
		{"model when available", story.EngineModel, true, false, story.EngineModel, nil},
		{"model degrades with fallback", story.EngineModel, false, true, story.EngineRuleBased, nil},
		{"model without fallback fails", story.EngineModel, false, false, "", story.ErrEngineUnavailable},
		{"auto prefers model", story.EngineAuto, true, false, story.EngineModel, nil},
		{"auto without model", story.EngineAuto, false, false, story.EngineRuleBased, nil},
		{"empty treated as auto", "", false, false, story.EngineRuleBased, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(Config{FallbackEnabled: tt.fallback}, tt.modelAvailable, &stubGenerator{}, &stubGenerator{})
			got, err := r.SelectEngine(tt.requested)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectEngineRejectsUnknown(t *testing.T) {
	r := newTestRouter(Config{}, true, &stubGenerator{}, &stubGenerator{})

	_, err := r.SelectEngine("turbo")
	var ve *story.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestGenerateStoryFallsBackOnModelFailure(t *testing.T) {
	ruleStub := &stubGenerator{engine: story.EngineRuleBased}
	modelStub := &stubGenerator{err: errors.New("inference server down")}
	r := newTestRouter(Config{FallbackEnabled: true}, true, ruleStub, modelStub)

	s, err := r.GenerateStory(context.Background(), story.Request{Engine: story.EngineModel})
	require.NoError(t, err)
	assert.Equal(t, story.EngineRuleBased, s.Engine)
	assert.Equal(t, 1, modelStub.calls)
	assert.Equal(t, 1, ruleStub.calls)
}

func TestGenerateStoryNoFallbackPropagatesError(t *testing.T) {
	boom := errors.New("inference server down")
	ruleStub := &stubGenerator{engine: story.EngineRuleBased}
	r := newTestRouter(Config{FallbackEnabled: false}, true, ruleStub, &stubGenerator{err: boom})

	_, err := r.GenerateStory(context.Background(), story.Request{Engine: story.EngineModel})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, ruleStub.calls, "rule-based engine must not run without fallback")
}

func TestGenerateStoryValidationErrorNeverFallsBack(t *testing.T) {
	ruleStub := &stubGenerator{engine: story.EngineRuleBased}
	modelStub := &stubGenerator{err: story.Validationf("language %q is not supported", "french")}
	r := newTestRouter(Config{FallbackEnabled: true}, true, ruleStub, modelStub)

	_, err := r.GenerateStory(context.Background(), story.Request{Engine: story.EngineModel, Language: "french"})
	var ve *story.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, ruleStub.calls)
}

func TestGenerateStoryTimeout(t *testing.T) {
	r := newTestRouter(Config{Timeout: 20 * time.Millisecond}, true, &stubGenerator{}, &stubGenerator{block: true})

	_, err := r.GenerateStory(context.Background(), story.Request{Engine: story.EngineModel})
	require.ErrorIs(t, err, story.ErrGenerationTimeout)
}

func TestGenerateStoryTimeoutFallsBack(t *testing.T) {
	ruleStub := &stubGenerator{engine: story.EngineRuleBased}
	r := newTestRouter(Config{Timeout: 20 * time.Millisecond, FallbackEnabled: true}, true, ruleStub, &stubGenerator{block: true})

	s, err := r.GenerateStory(context.Background(), story.Request{Engine: story.EngineModel})
	require.NoError(t, err)
	assert.Equal(t, story.EngineRuleBased, s.Engine)
}

func TestGenerateStoryUsesPreferredWhenRequestSilent(t *testing.T) {
	ruleStub := &stubGenerator{engine: story.EngineRuleBased}
	modelStub := &stubGenerator{engine: story.EngineModel}
	r := newTestRouter(Config{Preferred: story.EngineRuleBased}, true, ruleStub, modelStub)

	s, err := r.GenerateStory(context.Background(), story.Request{})
	require.NoError(t, err)
	assert.Equal(t, story.EngineRuleBased, s.Engine)
	assert.Zero(t, modelStub.calls)
}

func TestGenerateStoryExplicitEngineOverridesPreferred(t *testing.T) {
	modelStub := &stubGenerator{engine: story.EngineModel}
	r := newTestRouter(Config{Preferred: story.EngineRuleBased}, true, &stubGenerator{}, modelStub)

	s, err := r.GenerateStory(context.Background(), story.Request{Engine: story.EngineModel})
	require.NoError(t, err)
	assert.Equal(t, story.EngineModel, s.Engine)
}

func TestGenerateVariations(t *testing.T) {
	ruleStub := &stubGenerator{engine: story.EngineRuleBased}
	r := newTestRouter(Config{}, false, ruleStub, &stubGenerator{})

	variations, err := r.GenerateVariations(context.Background(), story.Request{}, 4)
	require.NoError(t, err)
	assert.Len(t, variations, 4)

	variations, err = r.GenerateVariations(context.Background(), story.Request{}, 0)
	require.NoError(t, err)
	assert.Len(t, variations, 3, "non-positive count defaults to 3")
}

func TestGenerateVariationsAbortsOnError(t *testing.T) {
	boom := errors.New("generation broke")
	r := newTestRouter(Config{}, false, &stubGenerator{err: boom}, &stubGenerator{})

	_, err := r.GenerateVariations(context.Background(), story.Request{}, 5)
	require.ErrorIs(t, err, boom)
}

func TestSetPreferredEngine(t *testing.T) {
	r := newTestRouter(Config{}, true, &stubGenerator{}, &stubGenerator{})
	assert.Equal(t, story.EngineAuto, r.Preferred())

	require.NoError(t, r.SetPreferredEngine(story.EngineRuleBased))
	assert.Equal(t, story.EngineRuleBased, r.Preferred())

	err := r.SetPreferredEngine("turbo")
	var ve *story.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, story.EngineRuleBased, r.Preferred(), "rejected value must not stick")
}

func TestStatus(t *testing.T) {
	r := newTestRouter(Config{FallbackEnabled: true}, true, &stubGenerator{}, &stubGenerator{})

	status := r.Status()
	assert.True(t, status.Initialized)
	assert.True(t, status.ModelAvailable)
	assert.True(t, status.RuleBasedAvailable)
	assert.True(t, status.FallbackEnabled)
	assert.Equal(t, story.EngineAuto, status.PreferredEngine)
	assert.Equal(t, story.EngineModel, status.CurrentEngine)

	r = newTestRouter(Config{}, false, &stubGenerator{}, &stubGenerator{})
	status = r.Status()
	assert.False(t, status.ModelAvailable)
	assert.Equal(t, story.EngineRuleBased, status.CurrentEngine)
}
