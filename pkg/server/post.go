package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"storymaker/pkg/engine/rule"
	"storymaker/pkg/story"
)

// Variation counts beyond this are almost certainly a client bug.
const maxVariations = 10

// POST /api/generate
func (s *Server) handlePostGenerate(c echo.Context) error {
	var req story.Request
	if err := c.Bind(&req); err != nil {
		return fail(c, story.Validationf("invalid json"))
	}

	generated, err := s.Router.GenerateStory(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, generated)
}

type variationsReq struct {
	story.Request
	Count int `json:"count"`
}

// POST /api/generate-variations
func (s *Server) handlePostVariations(c echo.Context) error {
	var req variationsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, story.Validationf("invalid json"))
	}
	if req.Count > maxVariations {
		return fail(c, story.Validationf("count must not exceed %d (got %d)", maxVariations, req.Count))
	}

	variations, err := s.Router.GenerateVariations(c.Request().Context(), req.Request, req.Count)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, variations)
}

type analyzeReq struct {
	Text string `json:"text"`
}

// POST /api/analyze
func (s *Server) handlePostAnalyze(c echo.Context) error {
	var req analyzeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, story.Validationf("invalid json"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return fail(c, story.Validationf("text is required for analysis"))
	}
	return ok(c, rule.Analyze(req.Text))
}

type engineReq struct {
	Engine story.Engine `json:"engine"`
}

// POST /api/model/engine
func (s *Server) handlePostEngine(c echo.Context) error {
	var req engineReq
	if err := c.Bind(&req); err != nil {
		return fail(c, story.Validationf("invalid json"))
	}
	if err := s.Router.SetPreferredEngine(req.Engine); err != nil {
		return fail(c, err)
	}

	current, _ := s.Router.SelectEngine(req.Engine)
	return ok(c, map[string]story.Engine{
		"preferredEngine": req.Engine,
		"currentEngine":   current,
	})
}
