package rule

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"storymaker/pkg/story"
)

// Analysis describes the complexity of a piece of text.
type Analysis struct {
	WordCount               int              `json:"wordCount"`
	SentenceCount           int              `json:"sentenceCount"`
	AverageWordsPerSentence float64          `json:"averageWordsPerSentence"`
	EstimatedReadingTime    int              `json:"estimatedReadingTime"`
	Complexity              story.Difficulty `json:"complexity"`
}

var sentenceSplitRX = regexp.MustCompile(`[.!?]+`)

// Analyze computes word/sentence statistics and a difficulty estimate. Empty
// or punctuation-free input yields zero counts rather than an error.
func Analyze(text string) Analysis {
	words := strings.Fields(text)

	var sentences int
	for _, segment := range sentenceSplitRX.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			sentences++
		}
	}

	a := Analysis{
		WordCount:            len(words),
		SentenceCount:        sentences,
		EstimatedReadingTime: story.ReadingTime(len(words)),
		Complexity:           story.DifficultyBeginner,
	}
	if len(words) == 0 || sentences == 0 {
		return a
	}

	a.AverageWordsPerSentence = float64(len(words)) / float64(sentences)
	a.Complexity = complexity(words, sentences)
	return a
}

// complexity scores text at 0.4×average word length + 0.6×average sentence
// length and maps the score onto the three difficulty bands.
func complexity(words []string, sentences int) story.Difficulty {
	var runes int
	for _, w := range words {
		runes += utf8.RuneCountInString(w)
	}
	avgWordLength := float64(runes) / float64(len(words))
	avgSentenceLength := float64(len(words)) / float64(sentences)

	score := avgWordLength*0.4 + avgSentenceLength*0.6
	switch {
	case score < 8:
		return story.DifficultyBeginner
	case score < 15:
		return story.DifficultyIntermediate
	default:
		return story.DifficultyAdvanced
	}
}
