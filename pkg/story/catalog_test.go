package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValidate(t *testing.T) {
	require.NoError(t, NewCatalog().Validate())
}

func TestCatalogValidateMissingCategory(t *testing.T) {
	c := NewCatalog()
	delete(c.Vocabulary[LanguageEnglish], "moral")

	err := c.Validate()
	require.Error(t, err)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "moral")
}

func TestCatalogValidateEmptyCandidateList(t *testing.T) {
	c := NewCatalog()
	c.Vocabulary[LanguageTagalog]["trait"] = nil

	var ce *ConfigurationError
	require.ErrorAs(t, c.Validate(), &ce)
}

func TestCatalogValidateStructurePatternMismatch(t *testing.T) {
	c := NewCatalog()
	tpl := c.Templates[GenreAdventure][LanguageEnglish]
	tpl.Structure = tpl.Structure[:3]
	c.Templates[GenreAdventure][LanguageEnglish] = tpl

	var ce *ConfigurationError
	require.ErrorAs(t, c.Validate(), &ce)
}

func TestCatalogTitle(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, "The Adventure of Dragons", c.Title(GenreAdventure, LanguageEnglish, "Dragons"))
	assert.Equal(t, "An Amazing Adventure", c.Title(GenreAdventure, LanguageEnglish, ""))
	assert.Equal(t, "Pag-aaral Tungkol sa Agham", c.Title(GenreEducational, LanguageTagalog, "Agham"))
	assert.Equal(t, "Isang Kuwento na may Aral", c.Title(GenreMoral, LanguageTagalog, ""))
}

func TestCatalogVocabularyFor(t *testing.T) {
	c := NewCatalog()

	vocab, err := c.VocabularyFor(LanguageEnglish)
	require.NoError(t, err)
	assert.NotEmpty(t, vocab["character"])

	_, err = c.VocabularyFor("french")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCatalogSummaries(t *testing.T) {
	summaries := NewCatalog().Summaries()
	require.Len(t, summaries, 3)
	assert.Equal(t, GenreAdventure, summaries[0].Genre)
	assert.Equal(t, []Language{LanguageEnglish, LanguageTagalog}, summaries[0].Languages)
}
