package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestNormalizeDefaults(t *testing.T) {
	var req Request
	req.Normalize()

	assert.Equal(t, GenreAdventure, req.Genre)
	assert.Equal(t, LanguageEnglish, req.Language)
	assert.Equal(t, DifficultyBeginner, req.Difficulty)
}

func TestRequestNormalizeCasing(t *testing.T) {
	req := Request{
		Genre:      "ADVENTURE",
		Language:   " Tagalog ",
		Difficulty: "Advanced",
		Engine:     "Model",
		Topic:      "  Friendship ",
	}
	req.Normalize()

	assert.Equal(t, GenreAdventure, req.Genre)
	assert.Equal(t, LanguageTagalog, req.Language)
	assert.Equal(t, DifficultyAdvanced, req.Difficulty)
	assert.Equal(t, EngineModel, req.Engine)
	assert.Equal(t, "Friendship", req.Topic)
}

func TestRequestValidate(t *testing.T) {
	catalog := NewCatalog()

	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{
			name: "valid",
			req:  Request{Genre: GenreMoral, Language: LanguageTagalog, Difficulty: DifficultyIntermediate},
		},
		{
			name:    "unsupported language",
			req:     Request{Genre: GenreAdventure, Language: "french", Difficulty: DifficultyBeginner},
			wantErr: "french",
		},
		{
			name:    "unknown genre",
			req:     Request{Genre: "mystery", Language: LanguageEnglish, Difficulty: DifficultyBeginner},
			wantErr: "mystery",
		},
		{
			name:    "unknown difficulty",
			req:     Request{Genre: GenreAdventure, Language: LanguageEnglish, Difficulty: "expert"},
			wantErr: "expert",
		},
		{
			name:    "unknown engine",
			req:     Request{Genre: GenreAdventure, Language: LanguageEnglish, Difficulty: DifficultyBeginner, Engine: "turbo"},
			wantErr: "turbo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(catalog)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 5, WordCount("Hello world. It is nice."))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(0))
	assert.Equal(t, 1, ReadingTime(1))
	assert.Equal(t, 1, ReadingTime(200))
	assert.Equal(t, 2, ReadingTime(201))
	assert.Equal(t, 3, ReadingTime(450))
}
