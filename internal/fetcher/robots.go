package fetcher

import (
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsPolicy answers whether a URL may be crawled according to the
// site's robots.txt. Each host's file is fetched once.
type RobotsPolicy struct {
	http   *HTTPFetcher
	agent  string
	groups map[string]*robotstxt.Group
}

// NewRobotsPolicy returns a policy that downloads robots.txt through f.
func NewRobotsPolicy(f *HTTPFetcher, agent string) *RobotsPolicy {
	return &RobotsPolicy{
		http:   f,
		agent:  agent,
		groups: make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be visited. Unreachable or malformed
// robots files allow everything.
func (r *RobotsPolicy) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	origin := u.Scheme + "://" + u.Host

	group, ok := r.groups[origin]
	if !ok {
		group = r.load(origin)
		r.groups[origin] = group
	}
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (r *RobotsPolicy) load(origin string) *robotstxt.Group {
	asset, err := r.http.Fetch(origin + "/robots.txt")
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(asset.StatusCode, asset.Body)
	if err != nil {
		return nil
	}
	return data.FindGroup(r.agent)
}
