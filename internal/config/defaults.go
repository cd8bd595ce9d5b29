package config

import "time"

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		MaxPages:          50,
		MaxDepth:          3,
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       2 * time.Second,

		EnableScreenshots:        true,
		EnableMarkdownSnapshot:   true,
		EnableBrandAnalysis:      true,
		EnableElementScreenshots: true,
		EnableTextAnalysis:       true,
		RespectRobots:            false,

		TopNKeywords: 50,
		StopWords:    NewWordSet(defaultStopWords...),
		CTAPhrases:   NewWordSet(defaultCTAPhrases...),

		ElementCaptureSelectors: []SelectorSpec{
			{Name: "header", Selector: "header"},
			{Name: "navigation", Selector: "nav"},
			{Name: "hero", Selector: `.hero, [class*="hero"]`},
			{Name: "buttons", Selector: `button, .btn, [class*="button"]`},
			{Name: "cards", Selector: `.card, [class*="card"]`},
			{Name: "forms", Selector: "form"},
			{Name: "footer", Selector: "footer"},
		},

		UserAgent:        "brandscan/1.0",
		Headless:         true,
		LogoFetchTimeout: 10 * time.Second,

		OutputRoot: "reports",
	}
}

var defaultStopWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "day", "get", "has", "him",
	"his", "how", "man", "new", "now", "old", "see", "two", "way", "who",
	"boy", "did", "its", "let", "put", "say", "she", "too", "use", "that",
	"with", "have", "this", "will", "your", "from", "they", "know", "want",
	"been", "good", "much", "some", "time", "very", "when", "come", "here",
	"just", "like", "long", "make", "many", "over", "such", "take", "than",
	"them", "well", "were", "what", "which", "their", "there", "would",
	"about", "into", "more", "other", "also", "these", "only", "could",
	"then", "each", "most", "where", "after", "should", "because", "while",
}

var defaultCTAPhrases = []string{
	"get started", "sign up", "signup", "register", "subscribe",
	"buy now", "shop now", "add to cart", "order now", "learn more",
	"read more", "contact us", "get in touch", "book a demo",
	"request a demo", "free trial", "start free", "try free", "try it",
	"download", "join", "get a quote", "schedule", "apply now",
}
