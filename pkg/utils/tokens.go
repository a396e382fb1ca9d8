package utils

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// The encoding tables are expensive to build, so they are acquired once and
// shared. cl100k_base approximates most instruction-tuned local models well
// enough for budget checks.
var encoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

// CountTokens estimates how many tokens text occupies in a model context.
func CountTokens(text string) (int, error) {
	tkm, err := encoding()
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}
