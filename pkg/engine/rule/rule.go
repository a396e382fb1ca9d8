// Package rule implements the template-driven story generator. It needs no
// model, no network, and no state beyond the shared catalog, which makes it
// the reliability baseline the hybrid router falls back to.
package rule

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"storymaker/pkg/story"
	"storymaker/pkg/utils"
)

// transitionChance is the probability that a sentence after the first gets a
// transition word prepended.
const transitionChance = 0.5

// Engine generates stories by filling catalog templates with vocabulary.
type Engine struct {
	catalog *story.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns an engine seeded from the clock. Variation across calls is the
// point; tests use NewSeeded.
func New(catalog *story.Catalog) *Engine {
	return NewSeeded(catalog, time.Now().UnixNano())
}

// NewSeeded returns an engine with a deterministic random source. Identical
// seed plus identical request yields byte-identical output.
func NewSeeded(catalog *story.Catalog, seed int64) *Engine {
	return &Engine{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// GenerateStory builds one story from the request. The context is accepted
// for contract symmetry with the model engine; generation is synchronous and
// cheap.
func (e *Engine) GenerateStory(_ context.Context, req story.Request) (*story.Story, error) {
	req.Normalize()
	if err := req.Validate(e.catalog); err != nil {
		return nil, err
	}

	tpl, ok := e.catalog.TemplateFor(req.Genre, req.Language)
	if !ok {
		return nil, story.Validationf("genre %q is not available for %s", req.Genre, req.Language)
	}

	content := e.construct(tpl, req)
	words := story.WordCount(content)

	return &story.Story{
		ID:         ksuid.New().String(),
		Title:      e.catalog.Title(req.Genre, req.Language, req.Topic),
		Content:    content,
		Language:   req.Language,
		Genre:      req.Genre,
		Difficulty: req.Difficulty,
		Engine:     story.EngineRuleBased,
		Metadata: story.Metadata{
			WordCount:   words,
			ReadingTime: story.ReadingTime(words),
			GeneratedBy: story.GeneratedBy,
			Timestamp:   time.Now().UTC(),
		},
	}, nil
}

// construct runs the substitution pipeline: one element binding for the whole
// story, placeholder substitution per pattern, random transitions, then
// difficulty formatting. All random draws happen under the mutex in a fixed
// order so a seeded engine is reproducible.
func (e *Engine) construct(tpl story.Template, req story.Request) string {
	e.mu.Lock()
	binding := e.bindElements(req.Language, req.CustomElements)

	grammar := e.catalog.Grammar[req.Language]
	topic := req.Topic
	if topic == "" {
		topic = e.catalog.DefaultTopics[req.Language]
	}

	sentences := make([]string, 0, len(tpl.Patterns))
	for i, pattern := range tpl.Patterns {
		sentence := substitute(pattern, binding, topic)
		if i > 0 && e.rng.Float64() < transitionChance && len(grammar.Transitions) > 0 {
			transition := grammar.Transitions[e.rng.Intn(len(grammar.Transitions))]
			sentence = transition + ", " + utils.LowerFirst(sentence)
		}
		sentences = append(sentences, sentence)
	}
	e.mu.Unlock()

	return formatByDifficulty(sentences, req.Difficulty)
}

// bindElements picks one filler per vocabulary category; caller overrides win
// over random selection. Categories are walked in sorted order so the random
// draw sequence is stable. Callers hold e.mu.
func (e *Engine) bindElements(lang story.Language, overrides map[string]string) map[string]string {
	vocab := e.catalog.Vocabulary[lang]
	categories := make([]string, 0, len(vocab))
	for category := range vocab {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	binding := make(map[string]string, len(categories))
	for _, category := range categories {
		if v, ok := overrides[category]; ok && v != "" {
			binding[category] = v
			continue
		}
		candidates := vocab[category]
		binding[category] = candidates[e.rng.Intn(len(candidates))]
	}
	return binding
}

// substitute fills every {placeholder} from the binding, with {topic} served
// from the request (or the language default). Catalog validation guarantees
// every non-topic placeholder has a binding.
func substitute(pattern string, binding map[string]string, topic string) string {
	var sb strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		sb.WriteString(rest[:open])
		name := rest[open+1 : open+closing]
		if name == "topic" {
			sb.WriteString(topic)
		} else if v, ok := binding[name]; ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(rest[open : open+closing+1])
		}
		rest = rest[open+closing+1:]
	}
}

// formatByDifficulty joins sentences into the paragraph layout the reading
// level calls for: beginner gets one flat paragraph, intermediate pairs of
// sentences, advanced a break before every third sentence after the first.
func formatByDifficulty(sentences []string, difficulty story.Difficulty) string {
	switch difficulty {
	case story.DifficultyIntermediate:
		paragraphs := make([]string, 0, (len(sentences)+1)/2)
		for i := 0; i < len(sentences); i += 2 {
			end := min(i+2, len(sentences))
			paragraphs = append(paragraphs, strings.Join(sentences[i:end], " "))
		}
		return strings.Join(paragraphs, "\n\n")

	case story.DifficultyAdvanced:
		var sb strings.Builder
		for i, s := range sentences {
			if i > 0 {
				if i%3 == 0 {
					sb.WriteString("\n\n")
				} else {
					sb.WriteString(" ")
				}
			}
			sb.WriteString(s)
		}
		return sb.String()

	default:
		return strings.Join(sentences, " ")
	}
}
