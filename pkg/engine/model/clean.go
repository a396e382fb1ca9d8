package model

import (
	"strings"

	"storymaker/pkg/utils"
)

// Instruction lines that small models like to echo back before the story.
var echoedInstructions = []string{
	"Write the story now:",
	"Write the educational story now:",
	"Write the moral story now:",
	"Sumulat ng kuwento ngayon:",
	"Sumulat ng pang-edukasyong kuwento ngayon:",
	"Sumulat ng kuwentong may aral ngayon:",
}

// CleanOutput strips echoed instruction lines from the front of the raw
// completion, collapses 3+ newlines to a single blank line, and trims.
func CleanOutput(raw string) string {
	cleaned := strings.TrimSpace(raw)

	for trimmed := true; trimmed; {
		trimmed = false
		for _, line := range echoedInstructions {
			if len(cleaned) >= len(line) && strings.EqualFold(cleaned[:len(line)], line) {
				cleaned = strings.TrimSpace(cleaned[len(line):])
				trimmed = true
			}
		}
	}

	return strings.TrimSpace(utils.CollapseBlankLines(cleaned))
}
