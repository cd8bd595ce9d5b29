package state

// BrandElements collects the visual identity signals seen across the crawl.
// Colors, fonts, logos and CTA texts are sets; frequency tables only grow
// until the run is finalized.
type BrandElements struct {
	Colors             *OrderedSet                    `json:"colors"`
	Fonts              *OrderedSet                    `json:"fonts"`
	Logos              *OrderedSet                    `json:"logos"`
	ElementScreenshots map[string]map[string][]string `json:"elementScreenshots"`
	TextAnalysis       TextAnalysis                   `json:"textAnalysis"`
	SocialProfiles     map[string]*OrderedSet         `json:"socialProfiles"`

	// source URL (or svg key) -> saved logo path
	logoSources map[string]string
}

// TextAnalysis holds the keyword, bigram and call-to-action aggregates.
type TextAnalysis struct {
	KeywordFrequencies Frequencies `json:"keywordFrequencies"`
	BigramFrequencies  Frequencies `json:"bigramFrequencies"`
	CTATexts           *OrderedSet `json:"ctaTexts"`
}

// NewBrandElements returns empty, ready-to-fill brand elements.
func NewBrandElements() *BrandElements {
	return &BrandElements{
		Colors:             NewOrderedSet(),
		Fonts:              NewOrderedSet(),
		Logos:              NewOrderedSet(),
		ElementScreenshots: make(map[string]map[string][]string),
		TextAnalysis: TextAnalysis{
			KeywordFrequencies: make(Frequencies),
			BigramFrequencies:  make(Frequencies),
			CTATexts:           NewOrderedSet(),
		},
		SocialProfiles: make(map[string]*OrderedSet),
		logoSources:    make(map[string]string),
	}
}

func (b *BrandElements) AddColor(c string) bool { return b.Colors.Add(c) }

func (b *BrandElements) AddFont(f string) bool { return b.Fonts.Add(f) }

func (b *BrandElements) AddCTA(text string) bool { return b.TextAnalysis.CTATexts.Add(text) }

// AddLogo records a logo saved from source at the report-relative path.
func (b *BrandElements) AddLogo(source, path string) {
	if b.logoSources == nil {
		b.logoSources = make(map[string]string)
	}
	b.logoSources[source] = path
	b.Logos.Add(path)
}

// LogoFor returns the path a source was already saved under.
func (b *BrandElements) LogoFor(source string) (string, bool) {
	p, ok := b.logoSources[source]
	return p, ok
}

// AddSocialProfile records a profile URL under its platform.
func (b *BrandElements) AddSocialProfile(platform, profileURL string) bool {
	if b.SocialProfiles == nil {
		b.SocialProfiles = make(map[string]*OrderedSet)
	}
	set, ok := b.SocialProfiles[platform]
	if !ok {
		set = NewOrderedSet()
		b.SocialProfiles[platform] = set
	}
	return set.Add(profileURL)
}

// SetElementScreenshots stores captured image paths for one selector on one page.
func (b *BrandElements) SetElementScreenshots(pageURL, name string, paths []string) {
	byName, ok := b.ElementScreenshots[pageURL]
	if !ok {
		byName = make(map[string][]string)
		b.ElementScreenshots[pageURL] = byName
	}
	byName[name] = paths
}

// AddTokens counts every token and every adjacent pair of the filtered stream.
func (b *BrandElements) AddTokens(tokens []string) {
	ta := b.TextAnalysis
	for i, tok := range tokens {
		ta.KeywordFrequencies.Add(tok)
		if i > 0 {
			ta.BigramFrequencies.Add(tokens[i-1] + " " + tok)
		}
	}
}
