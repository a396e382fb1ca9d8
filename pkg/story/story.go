package story

import (
	"strings"
	"time"
)

// Genre selects which narrative template family a story is built from.
type Genre string

const (
	GenreAdventure   Genre = "adventure"
	GenreEducational Genre = "educational"
	GenreMoral       Genre = "moral"
)

// Language selects the language of the generated story.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageTagalog Language = "tagalog"
)

// Difficulty controls vocabulary level and paragraph formatting.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Engine names a generation strategy.
type Engine string

const (
	EngineAuto      Engine = "auto"
	EngineModel     Engine = "model"
	EngineRuleBased Engine = "rule-based"
)

// GeneratedBy is stamped into every story's metadata.
const GeneratedBy = "Storymaker"

// Request describes one story generation call.
type Request struct {
	Genre          Genre             `json:"genre"`
	Language       Language          `json:"language"`
	Difficulty     Difficulty        `json:"difficulty"`
	Topic          string            `json:"topic,omitempty"`
	CustomElements map[string]string `json:"customElements,omitempty"`
	Engine         Engine            `json:"engine,omitempty"`
}

// Normalize fills in the documented defaults and lower-cases the enums so
// callers can send "English" or "ADVENTURE".
func (r *Request) Normalize() {
	r.Genre = Genre(strings.ToLower(strings.TrimSpace(string(r.Genre))))
	r.Language = Language(strings.ToLower(strings.TrimSpace(string(r.Language))))
	r.Difficulty = Difficulty(strings.ToLower(strings.TrimSpace(string(r.Difficulty))))
	r.Engine = Engine(strings.ToLower(strings.TrimSpace(string(r.Engine))))
	r.Topic = strings.TrimSpace(r.Topic)

	if r.Genre == "" {
		r.Genre = GenreAdventure
	}
	if r.Language == "" {
		r.Language = LanguageEnglish
	}
	if r.Difficulty == "" {
		r.Difficulty = DifficultyBeginner
	}
}

// Validate checks the request against the catalog. Every failure is a
// ValidationError so the façade can map it to a caller error.
func (r Request) Validate(c *Catalog) error {
	if _, ok := c.Vocabulary[r.Language]; !ok {
		return Validationf("language %q is not supported (supported: %s)", r.Language, strings.Join(c.LanguageNames(), ", "))
	}
	byLanguage, ok := c.Templates[r.Genre]
	if !ok {
		return Validationf("genre %q is not available", r.Genre)
	}
	if _, ok := byLanguage[r.Language]; !ok {
		return Validationf("genre %q is not available for %s", r.Genre, r.Language)
	}
	switch r.Difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
	default:
		return Validationf("difficulty %q is not recognized", r.Difficulty)
	}
	switch r.Engine {
	case "", EngineAuto, EngineModel, EngineRuleBased:
	default:
		return Validationf("engine %q is not recognized (allowed: auto, model, rule-based)", r.Engine)
	}
	return nil
}

// Metadata carries derived facts about a generated story.
type Metadata struct {
	WordCount   int       `json:"wordCount"`
	ReadingTime int       `json:"readingTime"`
	GeneratedBy string    `json:"generatedBy"`
	Timestamp   time.Time `json:"timestamp"`
	ModelPath   string    `json:"modelPath,omitempty"`
}

// Story is the normalized output of either engine. It is created fresh per
// request and never mutated after being returned.
type Story struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Language   Language   `json:"language"`
	Genre      Genre      `json:"genre"`
	Difficulty Difficulty `json:"difficulty"`
	Engine     Engine     `json:"engine"`
	Metadata   Metadata   `json:"metadata"`
}

// WordCount splits on any whitespace, matching the reading-time math.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadingTime estimates minutes at 200 words per minute, rounding up.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + 199) / 200
}
