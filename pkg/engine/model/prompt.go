package model

import (
	"fmt"

	"storymaker/pkg/story"
)

type promptSpec struct {
	format       string
	defaultTopic string
}

// BuildPrompt renders the natural-language instruction for a genre/language
// pair, parameterized by difficulty and topic.
func BuildPrompt(req story.Request) (string, error) {
	spec, ok := promptSpecs[req.Language][req.Genre]
	if !ok {
		return "", story.Validationf("no prompt template for %s in %s", req.Genre, req.Language)
	}
	topic := req.Topic
	if topic == "" {
		topic = spec.defaultTopic
	}
	return fmt.Sprintf(spec.format, req.Difficulty, topic), nil
}

var promptSpecs = map[story.Language]map[story.Genre]promptSpec{
	story.LanguageEnglish: {
		story.GenreAdventure: {
			defaultTopic: "A thrilling adventure",
			format: `You are a creative storyteller for e-learning. Write an engaging adventure story suitable for %[1]s level readers.

Topic: %[2]s
Requirements:
- Write in clear, %[1]s level English
- Include a beginning, challenge, journey, climax, and resolution
- Make it educational and age-appropriate
- Length: approximately 150-200 words
- Include a positive message or lesson

Write the story now:`,
		},
		story.GenreEducational: {
			defaultTopic: "An interesting subject",
			format: `You are an educational content creator. Write a clear and engaging educational story for %[1]s level learners.

Topic: %[2]s
Requirements:
- Explain the topic in a story format
- Use %[1]s level vocabulary
- Include examples and practical applications
- Make it interesting and memorable
- Length: approximately 150-200 words

Write the educational story now:`,
		},
		story.GenreMoral: {
			defaultTopic: "An important life lesson",
			format: `You are a storyteller who teaches life lessons. Write a moral story for %[1]s level readers.

Theme: %[2]s
Requirements:
- Tell a story with characters facing a moral dilemma
- Use %[1]s level language
- Include a clear moral lesson at the end
- Make it relatable and meaningful
- Length: approximately 150-200 words

Write the moral story now:`,
		},
	},
	story.LanguageTagalog: {
		story.GenreAdventure: {
			defaultTopic: "Isang nakakaakit na pakikipagsapalaran",
			format: `Ikaw ay isang malikhaing manunulat ng kuwento para sa pag-aaral. Sumulat ng isang kawili-wiling kuwentong pakikipagsapalaran na angkop para sa %[1]s level na mga mambabasa.

Paksa: %[2]s
Mga Kinakailangan:
- Sumulat sa malinaw na Tagalog, %[1]s level
- Isama ang simula, hamon, paglalakbay, kasukdulan, at resolusyon
- Gawing pang-edukasyon at angkop sa edad
- Haba: humigit-kumulang 150-200 salita
- Isama ang positibong mensahe o aral

Sumulat ng kuwento ngayon:`,
		},
		story.GenreEducational: {
			defaultTopic: "Isang kawili-wiling paksa",
			format: `Ikaw ay isang lumikha ng pang-edukasyong nilalaman. Sumulat ng malinaw at kawili-wiling pang-edukasyong kuwento para sa %[1]s level na mga mag-aaral.

Paksa: %[2]s
Mga Kinakailangan:
- Ipaliwanag ang paksa sa pamamagitan ng kuwento
- Gumamit ng %[1]s level na bokabularyo
- Isama ang mga halimbawa at praktikal na aplikasyon
- Gawing kawili-wili at hindi malilimutan
- Haba: humigit-kumulang 150-200 salita

Sumulat ng pang-edukasyong kuwento ngayon:`,
		},
		story.GenreMoral: {
			defaultTopic: "Isang mahalagang aral sa buhay",
			format: `Ikaw ay isang manunulat ng kuwento na nagtuturo ng mga aral sa buhay. Sumulat ng kuwentong may aral para sa %[1]s level na mga mambabasa.

Tema: %[2]s
Mga Kinakailangan:
- Magkuwento tungkol sa mga tauhan na humaharap sa moral na pagpapasya
- Gumamit ng %[1]s level na wika
- Isama ang malinaw na aral sa dulo
- Gawing relatable at makabuluhan
- Haba: humigit-kumulang 150-200 salita

Sumulat ng kuwentong may aral ngayon:`,
		},
	},
}
