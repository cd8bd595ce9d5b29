package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/state"
)

// socialPlatform maps a platform name to the hosts its profiles live on.
type socialPlatform struct {
	name  string
	hosts []string
}

var socialPlatforms = []socialPlatform{
	{"bluesky", []string{"bsky.app"}},
	{"discord", []string{"discord.gg", "discord.com"}},
	{"facebook", []string{"facebook.com", "fb.com", "fb.me"}},
	{"github", []string{"github.com"}},
	{"instagram", []string{"instagram.com"}},
	{"linkedin", []string{"linkedin.com"}},
	{"mastodon", []string{"mastodon.social"}},
	{"pinterest", []string{"pinterest.com"}},
	{"reddit", []string{"reddit.com"}},
	{"telegram", []string{"t.me", "telegram.me"}},
	{"threads", []string{"threads.net"}},
	{"tiktok", []string{"tiktok.com"}},
	{"twitter", []string{"twitter.com", "x.com"}},
	{"youtube", []string{"youtube.com", "youtu.be"}},
}

// SocialExtractor records links to the site's social media profiles.
type SocialExtractor struct{}

func NewSocialExtractor() *SocialExtractor { return &SocialExtractor{} }

func (e *SocialExtractor) Name() string { return "social" }

func (e *SocialExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	doc, err := pc.Document()
	if err != nil {
		return err
	}
	base, err := pc.BaseURL()
	if err != nil {
		return err
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := resolveURL(base, strings.TrimSpace(href))
		if resolved == nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		platform := SocialPlatform(resolved.Hostname())
		if platform == "" {
			return
		}
		// a bare platform homepage is not a profile
		if strings.Trim(resolved.Path, "/") == "" {
			return
		}
		resolved.Fragment = ""
		st.BrandElements.AddSocialProfile(platform, resolved.String())
	})
	return nil
}

// SocialPlatform names the platform serving host, or "" when host is not a
// known social network. Subdomains such as www. match their parent.
func SocialPlatform(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, p := range socialPlatforms {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.name
			}
		}
	}
	return ""
}
