package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storymaker/pkg/story"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": Name,
		"status":  "ok",
	})
}

type engineInfo struct {
	Available bool `json:"available"`
	Handle    any  `json:"handle,omitempty"`
}

type systemInfo struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Engines         map[string]engineInfo `json:"engines"`
	PreferredEngine story.Engine      `json:"preferredEngine"`
	FallbackEnabled bool              `json:"fallbackEnabled"`
	Languages       []string          `json:"supportedLanguages"`
	Genres          []story.GenreSummary `json:"supportedGenres"`
	Capabilities    []string          `json:"capabilities"`
}

// GET /api/info
func (s *Server) handleGetInfo(c echo.Context) error {
	info := systemInfo{
		Name:    Name,
		Version: Version,
		Engines: map[string]engineInfo{
			"model":      {Available: s.Router.ModelAvailable(), Handle: s.Model.Handle()},
			"rule-based": {Available: true},
		},
		PreferredEngine: s.Router.Preferred(),
		FallbackEnabled: s.Router.FallbackEnabled(),
		Languages:       s.Catalog.LanguageNames(),
		Genres:          s.Catalog.Summaries(),
		Capabilities: []string{
			"Hybrid generation (model + rule-based)",
			"Bilingual support (English & Tagalog)",
			"Multiple genre support",
			"Difficulty level adaptation",
			"Automatic fallback mechanism",
			"Custom element integration",
			"Story analysis",
			"Local inference",
		},
	}
	return ok(c, info)
}

type modelStatus struct {
	Initialized        bool         `json:"initialized"`
	ModelAvailable     bool         `json:"modelAvailable"`
	RuleBasedAvailable bool         `json:"ruleBasedAvailable"`
	PreferredEngine    story.Engine `json:"preferredEngine"`
	CurrentEngine      story.Engine `json:"currentEngine"`
	FallbackEnabled    bool         `json:"fallbackEnabled"`
	ModelHandle        any          `json:"modelHandle,omitempty"`
	MemoryEstimate     any          `json:"memoryEstimate,omitempty"`
}

// GET /api/model/status
func (s *Server) handleGetModelStatus(c echo.Context) error {
	st := s.Router.Status()
	out := modelStatus{
		Initialized:        st.Initialized,
		ModelAvailable:     st.ModelAvailable,
		RuleBasedAvailable: st.RuleBasedAvailable,
		PreferredEngine:    st.PreferredEngine,
		CurrentEngine:      st.CurrentEngine,
		FallbackEnabled:    st.FallbackEnabled,
	}
	if st.ModelAvailable {
		out.ModelHandle = s.Model.Handle()
		out.MemoryEstimate = s.Model.EstimateMemoryUsage()
	}
	return ok(c, out)
}

// GET /api/model/recommended
func (s *Server) handleGetRecommended(c echo.Context) error {
	return ok(c, s.Recommended)
}

// GET /api/vocabulary/:language
func (s *Server) handleGetVocabulary(c echo.Context) error {
	lang := story.Language(strings.ToLower(c.Param("language")))
	vocab, err := s.Catalog.VocabularyFor(lang)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, vocab)
}

// GET /api/templates
func (s *Server) handleGetTemplates(c echo.Context) error {
	return ok(c, s.Catalog.Summaries())
}
