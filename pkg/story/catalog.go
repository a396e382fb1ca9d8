package story

import (
	"fmt"
	"regexp"
	"sort"
)

// Template pairs the narrative stages of a genre with the sentence patterns
// that narrate them. Structure[i] names the stage told by Patterns[i].
type Template struct {
	Structure []string `json:"structure"`
	Patterns  []string `json:"patterns"`
}

// Vocabulary maps a category to its candidate fillers. Every category a
// pattern references must exist here with at least one entry.
type Vocabulary map[string][]string

// Grammar holds the per-language flow words.
type Grammar struct {
	Transitions []string `json:"transitions"`
	Connectors  []string `json:"connectors"`
}

// TitleFormat renders a story title; WithTopic is a fmt verb string taking
// the topic, Generic is used when no topic was supplied.
type TitleFormat struct {
	WithTopic string
	Generic   string
}

// Catalog bundles all static generation data. It is built once at process
// start, validated, and then shared read-only between engines.
type Catalog struct {
	Templates     map[Genre]map[Language]Template
	Vocabulary    map[Language]Vocabulary
	Grammar       map[Language]Grammar
	Titles        map[Language]map[Genre]TitleFormat
	DefaultTopics map[Language]string
}

var placeholderRX = regexp.MustCompile(`\{([a-z_]+)\}`)

// NewCatalog returns the built-in bilingual catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Templates:     builtinTemplates(),
		Vocabulary:    builtinVocabulary(),
		Grammar:       builtinGrammar(),
		Titles:        builtinTitles(),
		DefaultTopics: builtinDefaultTopics(),
	}
}

// Validate makes sure every placeholder in every pattern resolves to a
// vocabulary category (or the literal topic token), every category has at
// least one candidate, and structure/patterns line up. Run once at startup;
// a failure here means the shipped data is broken, not the request.
func (c *Catalog) Validate() error {
	for lang, vocab := range c.Vocabulary {
		for category, entries := range vocab {
			if len(entries) == 0 {
				return Configurationf("vocabulary %s/%s has no candidates", lang, category)
			}
		}
		if _, ok := c.Grammar[lang]; !ok {
			return Configurationf("no grammar table for %s", lang)
		}
		if _, ok := c.DefaultTopics[lang]; !ok {
			return Configurationf("no default topic for %s", lang)
		}
	}
	for genre, byLanguage := range c.Templates {
		for lang, tpl := range byLanguage {
			if len(tpl.Patterns) == 0 {
				return Configurationf("template %s/%s has no patterns", genre, lang)
			}
			if len(tpl.Structure) != len(tpl.Patterns) {
				return Configurationf("template %s/%s: %d stages but %d patterns", genre, lang, len(tpl.Structure), len(tpl.Patterns))
			}
			vocab, ok := c.Vocabulary[lang]
			if !ok {
				return Configurationf("template %s/%s references unknown language", genre, lang)
			}
			for i, pattern := range tpl.Patterns {
				for _, m := range placeholderRX.FindAllStringSubmatch(pattern, -1) {
					name := m[1]
					if name == "topic" {
						continue
					}
					if _, ok := vocab[name]; !ok {
						return Configurationf("template %s/%s pattern %d references category %q missing from %s vocabulary", genre, lang, i, name, lang)
					}
				}
			}
			if _, ok := c.Titles[lang][genre]; !ok {
				return Configurationf("no title format for %s/%s", genre, lang)
			}
		}
	}
	return nil
}

// TemplateFor resolves the template for a genre/language pair.
func (c *Catalog) TemplateFor(genre Genre, lang Language) (Template, bool) {
	tpl, ok := c.Templates[genre][lang]
	return tpl, ok
}

// VocabularyFor returns the vocabulary table for a language.
func (c *Catalog) VocabularyFor(lang Language) (Vocabulary, error) {
	vocab, ok := c.Vocabulary[lang]
	if !ok {
		return nil, NotFoundf("vocabulary for %s not found", lang)
	}
	return vocab, nil
}

// Title renders the title for a story, substituting the topic when present.
func (c *Catalog) Title(genre Genre, lang Language, topic string) string {
	format, ok := c.Titles[lang][genre]
	if !ok {
		return "Untitled Story"
	}
	if topic != "" {
		return fmt.Sprintf(format.WithTopic, topic)
	}
	return format.Generic
}

// LanguageNames returns the supported languages in stable order.
func (c *Catalog) LanguageNames() []string {
	names := make([]string, 0, len(c.Vocabulary))
	for lang := range c.Vocabulary {
		names = append(names, string(lang))
	}
	sort.Strings(names)
	return names
}

// GenreSummary lists each genre with the languages it is available in,
// which is exactly the shape the templates endpoint serves.
type GenreSummary struct {
	Genre     Genre      `json:"genre"`
	Languages []Language `json:"languages"`
}

// Summaries returns every configured genre with its languages, sorted for
// stable JSON output.
func (c *Catalog) Summaries() []GenreSummary {
	out := make([]GenreSummary, 0, len(c.Templates))
	for genre, byLanguage := range c.Templates {
		langs := make([]Language, 0, len(byLanguage))
		for lang := range byLanguage {
			langs = append(langs, lang)
		}
		sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
		out = append(out, GenreSummary{Genre: genre, Languages: langs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Genre < out[j].Genre })
	return out
}

func builtinTemplates() map[Genre]map[Language]Template {
	return map[Genre]map[Language]Template{
		GenreAdventure: {
			LanguageEnglish: {
				Structure: []string{"introduction", "challenge", "journey", "climax", "resolution"},
				Patterns: []string{
					"Once upon a time, {character} lived in {location}.",
					"{character} discovered {object} that would change everything.",
					"The journey to {destination} was filled with {obstacles}.",
					"Finally, {character} faced {challenge} with courage.",
					"In the end, {character} learned that {moral}.",
				},
			},
			LanguageTagalog: {
				Structure: []string{"panimula", "hamon", "paglalakbay", "kasukdulan", "resolusyon"},
				Patterns: []string{
					"Noong unang panahon, si {character} ay nakatira sa {location}.",
					"Natuklasan ni {character} ang {object} na magbabago ng lahat.",
					"Ang paglalakbay patungo sa {destination} ay puno ng {obstacles}.",
					"Sa wakas, hinarap ni {character} ang {challenge} nang may tapang.",
					"Sa huli, natutunan ni {character} na {moral}.",
				},
			},
		},
		GenreEducational: {
			LanguageEnglish: {
				Structure: []string{"topic_intro", "explanation", "example", "practice", "summary"},
				Patterns: []string{
					"Today we will learn about {topic}.",
					"{topic} is important because {reason}.",
					"For example, {example}.",
					"Let's practice: {exercise}.",
					"Remember, {summary}.",
				},
			},
			LanguageTagalog: {
				Structure: []string{"panimula_ng_paksa", "paliwanag", "halimbawa", "pagsasanay", "buod"},
				Patterns: []string{
					"Ngayong araw ay matututunan natin ang tungkol sa {topic}.",
					"Ang {topic} ay mahalaga dahil {reason}.",
					"Halimbawa, {example}.",
					"Magsanay tayo: {exercise}.",
					"Tandaan, {summary}.",
				},
			},
		},
		GenreMoral: {
			LanguageEnglish: {
				Structure: []string{"setting", "characters", "problem", "solution", "lesson"},
				Patterns: []string{
					"In {location}, there lived {character}.",
					"{character} was known for being {trait}.",
					"One day, {problem} happened.",
					"{character} decided to {action}.",
					"This teaches us that {moral}.",
				},
			},
			LanguageTagalog: {
				Structure: []string{"tagpuan", "tauhan", "suliranin", "solusyon", "aral"},
				Patterns: []string{
					"Sa {location}, may naninirahan na si {character}.",
					"Si {character} ay kilala sa pagiging {trait}.",
					"Isang araw, {problem} ang nangyari.",
					"Nagpasya si {character} na {action}.",
					"Ito ay nagtuturo sa atin na {moral}.",
				},
			},
		},
	}
}

func builtinVocabulary() map[Language]Vocabulary {
	return map[Language]Vocabulary{
		LanguageEnglish: {
			"character":   {"Alex", "Maria", "Ben", "Sofia", "Leo", "Emma", "a brave knight", "a wise owl", "a curious child"},
			"location":    {"a peaceful village", "a magical forest", "a bustling city", "a quiet farm", "the mountains"},
			"object":      {"a mysterious book", "a golden key", "a magic wand", "a treasure map", "a special gift"},
			"destination": {"the hidden valley", "the ancient castle", "the faraway island", "the top of the great mountain", "the lost city"},
			"obstacles":   {"dangerous rivers", "dark caves", "tricky riddles", "fierce storms", "tall cliffs"},
			"challenge":   {"a mighty dragon", "a difficult puzzle", "a raging storm", "a deep fear", "a powerful rival"},
			"trait":       {"kind", "brave", "honest", "hardworking", "generous", "patient", "wise"},
			"action":      {"help others", "tell the truth", "work hard", "share with friends", "never give up"},
			"problem":     {"a terrible flood", "a misunderstanding between friends", "a lost treasure", "a broken promise", "a sudden storm"},
			"reason":      {"it helps us understand the world", "it is part of our everyday life", "it teaches us new skills", "it connects us with others"},
			"example":     {"think of how plants grow from tiny seeds", "imagine counting the stars in the night sky", "remember how rain fills the rivers", "notice how bees help flowers bloom"},
			"exercise":    {"try naming three examples on your own", "draw a picture of what you learned", "share what you discovered with a friend", "write one sentence about it"},
			"summary":     {"learning a little every day makes us wiser", "practice makes progress", "curiosity is the start of knowledge", "small steps lead to big discoveries"},
			"moral": {
				"honesty is the best policy",
				"hard work pays off",
				"kindness matters",
				"teamwork makes dreams work",
				"never judge a book by its cover",
			},
		},
		LanguageTagalog: {
			"character":   {"Alex", "Maria", "Ben", "Sofia", "Leo", "Emma", "isang matapang na kabalyero", "isang matalinong kuwago", "isang mausisang bata"},
			"location":    {"isang payapang nayon", "isang mahiwagang gubat", "isang masigasig na lungsod", "isang tahimik na bukid", "ang mga bundok"},
			"object":      {"isang misteryosong libro", "isang gintong susi", "isang mahiwagang tungkod", "isang mapa ng kayamanan", "isang espesyal na regalo"},
			"destination": {"ang nakatagong lambak", "ang sinaunang kastilyo", "ang malayong isla", "ang tuktok ng dakilang bundok", "ang nawawalang lungsod"},
			"obstacles":   {"mapanganib na mga ilog", "madilim na mga kuweba", "mahihirap na bugtong", "malalakas na bagyo", "matataas na talampas"},
			"challenge":   {"isang makapangyarihang dragon", "isang mahirap na palaisipan", "isang rumaragasang bagyo", "isang matinding takot", "isang malakas na karibal"},
			"trait":       {"mabait", "matapang", "tapat", "masipag", "mapagbigay", "matiyaga", "matalino"},
			"action":      {"tumulong sa iba", "magsabi ng totoo", "magsikap", "magbahagi sa mga kaibigan", "huwag sumuko"},
			"problem":     {"isang malaking baha", "isang hindi pagkakaunawaan ng magkaibigan", "isang nawawalang kayamanan", "isang sirang pangako", "isang biglaang bagyo"},
			"reason":      {"tumutulong ito upang maunawaan natin ang mundo", "bahagi ito ng ating pang-araw-araw na buhay", "nagtuturo ito ng mga bagong kasanayan", "nag-uugnay ito sa atin sa iba"},
			"example":     {"isipin kung paano tumutubo ang halaman mula sa maliit na binhi", "subukang bilangin ang mga bituin sa gabi", "alalahanin kung paano pinupuno ng ulan ang mga ilog", "pansinin kung paano tinutulungan ng mga bubuyog ang mga bulaklak"},
			"exercise":    {"magbigay ng tatlong sariling halimbawa", "gumuhit ng larawan ng iyong natutunan", "ibahagi sa kaibigan ang iyong natuklasan", "sumulat ng isang pangungusap tungkol dito"},
			"summary":     {"ang kaunting pag-aaral araw-araw ay nagpapatalino sa atin", "ang pagsasanay ay nagdudulot ng pag-unlad", "ang pag-uusisa ay simula ng karunungan", "ang maliliit na hakbang ay tungo sa malalaking tuklas"},
			"moral": {
				"ang katapatan ay pinakamahusay na patakaran",
				"ang sipag ay may gantimpala",
				"mahalaga ang kabaitan",
				"ang pagtutulungan ay nagdudulot ng tagumpay",
				"huwag husgahan ang isang bagay sa panlabas na anyo",
			},
		},
	}
}

func builtinGrammar() map[Language]Grammar {
	return map[Language]Grammar{
		LanguageEnglish: {
			Transitions: []string{"Then", "Next", "After that", "Suddenly", "Meanwhile", "Finally"},
			Connectors:  []string{"and", "but", "so", "because", "although", "while"},
		},
		LanguageTagalog: {
			Transitions: []string{"Pagkatapos", "Susunod", "Pagkatapos noon", "Biglang", "Samantala", "Sa wakas"},
			Connectors:  []string{"at", "ngunit", "kaya", "dahil", "bagaman", "habang"},
		},
	}
}

func builtinTitles() map[Language]map[Genre]TitleFormat {
	return map[Language]map[Genre]TitleFormat{
		LanguageEnglish: {
			GenreAdventure:   {WithTopic: "The Adventure of %s", Generic: "An Amazing Adventure"},
			GenreEducational: {WithTopic: "Learning About %s", Generic: "A Learning Journey"},
			GenreMoral:       {WithTopic: "The Lesson of %s", Generic: "A Story with a Lesson"},
		},
		LanguageTagalog: {
			GenreAdventure:   {WithTopic: "Ang Pakikipagsapalaran ng %s", Generic: "Isang Kahanga-hangang Pakikipagsapalaran"},
			GenreEducational: {WithTopic: "Pag-aaral Tungkol sa %s", Generic: "Isang Paglalakbay sa Pag-aaral"},
			GenreMoral:       {WithTopic: "Ang Aral ng %s", Generic: "Isang Kuwento na may Aral"},
		},
	}
}

func builtinDefaultTopics() map[Language]string {
	return map[Language]string{
		LanguageEnglish: "the world around us",
		LanguageTagalog: "ang mundo sa ating paligid",
	}
}
