package extractor

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ramkansal/brandscan/internal/state"
)

// LogoExtractor finds logo images and inline SVGs and saves them under
// logos/. A source already saved during the run is not fetched again.
type LogoExtractor struct {
	assets AssetFetcher
	now    func() time.Time
}

func NewLogoExtractor(assets AssetFetcher, now func() time.Time) *LogoExtractor {
	return &LogoExtractor{assets: assets, now: now}
}

func (e *LogoExtractor) Name() string { return "logos" }

const logoProbeJS = `() => {
	const re = /logo|brand/i;
	const visible = el => {
		const r = el.getBoundingClientRect();
		const cs = getComputedStyle(el);
		return r.width > 10 && r.height > 10 && cs.display !== 'none' &&
			cs.visibility !== 'hidden' && cs.opacity !== '0';
	};
	const out = [];
	for (const img of Array.from(document.querySelectorAll('img'))) {
		const hay = [img.alt, img.getAttribute('src'), img.getAttribute('class')].join(' ');
		if (!re.test(hay) || !visible(img)) continue;
		out.push({ kind: 'img', src: img.currentSrc || img.src, name: img.alt || '' });
	}
	for (const svg of Array.from(document.querySelectorAll('svg'))) {
		const parent = svg.parentElement;
		const hay = [svg.getAttribute('aria-label'), svg.id, svg.getAttribute('class'),
			parent ? parent.getAttribute('class') : ''].join(' ');
		if (!re.test(hay) || !visible(svg)) continue;
		out.push({ kind: 'svg', markup: svg.outerHTML, name: svg.getAttribute('aria-label') || svg.id || '' });
	}
	return out;
}`

type logoCandidate struct {
	Kind   string `json:"kind"`
	Src    string `json:"src,omitempty"`
	Markup string `json:"markup,omitempty"`
	Name   string `json:"name"`
}

func (e *LogoExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	var candidates []logoCandidate
	if err := pc.Page.Evaluate(logoProbeJS, &candidates); err != nil {
		return err
	}

	base, err := pc.BaseURL()
	if err != nil {
		return err
	}

	b := st.BrandElements
	var errs []error
	for _, c := range candidates {
		source, data, ext, err := e.load(base, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if source == "" {
			continue
		}
		if _, ok := b.LogoFor(source); ok {
			continue
		}
		if data == nil {
			if data, ext, err = e.download(source); err != nil {
				errs = append(errs, err)
				continue
			}
		}

		name := logoName(c)
		rel := fmt.Sprintf("logos/%d-%s%s", e.now().UnixNano(), name, ext)
		rel, err = writeArtifact(st.ReportDir, rel, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.AddLogo(source, rel)
	}
	return errors.Join(errs...)
}

// load resolves the candidate's identity. SVG markup is returned directly;
// images are returned with nil data and fetched only if not yet saved.
func (e *LogoExtractor) load(base *url.URL, c logoCandidate) (source string, data []byte, ext string, err error) {
	switch c.Kind {
	case "svg":
		if c.Markup == "" {
			return "", nil, "", nil
		}
		sum := sha1.Sum([]byte(c.Markup))
		return "svg:" + hex.EncodeToString(sum[:]), []byte(c.Markup), ".svg", nil
	case "img":
		if c.Src == "" || strings.HasPrefix(c.Src, "data:") {
			return "", nil, "", nil
		}
		resolved := resolveURL(base, c.Src)
		if resolved == nil {
			return "", nil, "", fmt.Errorf("malformed logo src %q", c.Src)
		}
		return resolved.String(), nil, "", nil
	}
	return "", nil, "", nil
}

func (e *LogoExtractor) download(src string) ([]byte, string, error) {
	asset, err := e.assets.Fetch(src)
	if err != nil {
		return nil, "", err
	}
	return asset.Body, imageExt(src, asset.ContentType), nil
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".svg": true, ".ico": true, ".avif": true,
}

// imageExt picks the file extension from the URL path, then the content
// type, defaulting to .png.
func imageExt(src, contentType string) string {
	if u, err := url.Parse(src); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); imageExts[ext] {
			return ext
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "image/svg+xml":
			return ".svg"
		case "image/jpeg":
			return ".jpg"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		}
	}
	return ".png"
}

func logoName(c logoCandidate) string {
	name := c.Name
	if name == "" && c.Src != "" {
		if u, err := url.Parse(c.Src); err == nil {
			name = strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		}
	}
	name = strings.Trim(sanitize(strings.ToLower(strings.TrimSpace(name))), "_.")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		return "logo"
	}
	return name
}
