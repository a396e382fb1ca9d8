package rule

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaker/pkg/story"
)

func TestGenerateStoryAllGenresAndLanguages(t *testing.T) {
	engine := NewSeeded(story.NewCatalog(), 1)

	genres := []story.Genre{story.GenreAdventure, story.GenreEducational, story.GenreMoral}
	languages := []story.Language{story.LanguageEnglish, story.LanguageTagalog}

	for _, genre := range genres {
		for _, lang := range languages {
			t.Run(string(genre)+"/"+string(lang), func(t *testing.T) {
				s, err := engine.GenerateStory(context.Background(), story.Request{
					Genre:    genre,
					Language: lang,
					Topic:    "Dragons",
				})
				require.NoError(t, err)

				assert.NotEmpty(t, s.ID)
				assert.NotEmpty(t, s.Content)
				assert.Contains(t, s.Title, "Dragons")
				assert.Equal(t, genre, s.Genre)
				assert.Equal(t, lang, s.Language)
				assert.Equal(t, story.EngineRuleBased, s.Engine)
				assert.Equal(t, story.GeneratedBy, s.Metadata.GeneratedBy)
				assert.False(t, s.Metadata.Timestamp.IsZero())
				assert.NotContains(t, s.Content, "{", "unresolved placeholder in %q", s.Content)
			})
		}
	}
}

func TestGenerateStorySeededDeterminism(t *testing.T) {
	catalog := story.NewCatalog()
	req := story.Request{Genre: story.GenreMoral, Language: story.LanguageTagalog, Difficulty: story.DifficultyAdvanced}

	a, err := NewSeeded(catalog, 42).GenerateStory(context.Background(), req)
	require.NoError(t, err)
	b, err := NewSeeded(catalog, 42).GenerateStory(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Content, b.Content)
	assert.Equal(t, a.Title, b.Title)

	c, err := NewSeeded(catalog, 7).GenerateStory(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, a.Content, c.Content, "different seeds should diverge")
}

func TestGenerateStoryWordCountMatchesContent(t *testing.T) {
	engine := NewSeeded(story.NewCatalog(), 3)

	s, err := engine.GenerateStory(context.Background(), story.Request{
		Genre:      story.GenreEducational,
		Language:   story.LanguageEnglish,
		Difficulty: story.DifficultyIntermediate,
		Topic:      "the water cycle",
	})
	require.NoError(t, err)

	assert.Equal(t, len(strings.Fields(s.Content)), s.Metadata.WordCount)
	assert.Equal(t, story.ReadingTime(s.Metadata.WordCount), s.Metadata.ReadingTime)
}

func TestGenerateStoryCustomElements(t *testing.T) {
	engine := NewSeeded(story.NewCatalog(), 5)

	s, err := engine.GenerateStory(context.Background(), story.Request{
		Genre:    story.GenreAdventure,
		Language: story.LanguageEnglish,
		CustomElements: map[string]string{
			"character": "Juan dela Cruz",
			"location":  "Intramuros",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, s.Content, "Juan dela Cruz")
	assert.Contains(t, s.Content, "Intramuros")
}

func TestGenerateStoryDefaultTopic(t *testing.T) {
	engine := NewSeeded(story.NewCatalog(), 9)

	s, err := engine.GenerateStory(context.Background(), story.Request{
		Genre:    story.GenreEducational,
		Language: story.LanguageEnglish,
	})
	require.NoError(t, err)

	assert.Contains(t, s.Content, "the world around us")
	assert.Equal(t, "A Learning Journey", s.Title)
}

func TestGenerateStoryRejectsUnsupportedLanguage(t *testing.T) {
	engine := NewSeeded(story.NewCatalog(), 1)

	_, err := engine.GenerateStory(context.Background(), story.Request{
		Genre:    story.GenreAdventure,
		Language: "french",
	})
	var ve *story.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestFormatByDifficulty(t *testing.T) {
	sentences := []string{"One.", "Two.", "Three.", "Four.", "Five."}

	tests := []struct {
		difficulty story.Difficulty
		want       string
	}{
		{story.DifficultyBeginner, "One. Two. Three. Four. Five."},
		{story.DifficultyIntermediate, "One. Two.\n\nThree. Four.\n\nFive."},
		{story.DifficultyAdvanced, "One. Two. Three.\n\nFour. Five."},
	}
	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			assert.Equal(t, tt.want, formatByDifficulty(sentences, tt.difficulty))
		})
	}
}

func TestSubstitute(t *testing.T) {
	binding := map[string]string{"character": "Maria", "location": "a quiet farm"}

	assert.Equal(t, "Maria lived in a quiet farm.",
		substitute("{character} lived in {location}.", binding, ""))
	assert.Equal(t, "Today we will learn about volcanoes.",
		substitute("Today we will learn about {topic}.", binding, "volcanoes"))
	assert.Equal(t, "Missing {ghost} stays literal.",
		substitute("Missing {ghost} stays literal.", binding, ""))
}
