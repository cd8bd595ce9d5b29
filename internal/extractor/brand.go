package extractor

import (
	"regexp"
	"strings"

	"github.com/ramkansal/brandscan/internal/state"
)

// BrandExtractor harvests computed colors, fonts and root color variables.
type BrandExtractor struct{}

func NewBrandExtractor() *BrandExtractor { return &BrandExtractor{} }

func (e *BrandExtractor) Name() string { return "brand" }

const styleProbeJS = `() => {
	const tags = ['body', 'header', 'nav', 'main', 'section', 'footer', 'aside',
		'h1', 'h2', 'h3', 'h4', 'h5', 'h6', 'p', 'a', 'button', 'li', 'span', 'label', 'input'];
	const colors = new Set();
	const fonts = new Map();
	for (const tag of tags) {
		const els = Array.from(document.getElementsByTagName(tag)).slice(0, 50);
		for (const el of els) {
			const cs = getComputedStyle(el);
			colors.add(cs.color);
			colors.add(cs.backgroundColor);
			colors.add(cs.borderColor);
			const f = { family: cs.fontFamily, size: cs.fontSize, weight: cs.fontWeight };
			fonts.set(f.family + '|' + f.size + '|' + f.weight, f);
		}
	}
	const names = new Set();
	for (const sheet of Array.from(document.styleSheets)) {
		let rules;
		try { rules = sheet.cssRules; } catch (e) { continue; }
		for (const rule of Array.from(rules || [])) {
			if (!rule.style || rule.selectorText !== ':root') continue;
			for (const name of Array.from(rule.style)) {
				if (name.startsWith('--')) names.add(name);
			}
		}
	}
	for (const name of Array.from(document.documentElement.style)) {
		if (name.startsWith('--')) names.add(name);
	}
	const root = getComputedStyle(document.documentElement);
	const vars = Array.from(names).map(name => ({ name, value: root.getPropertyValue(name).trim() }));
	return { colors: Array.from(colors), fonts: Array.from(fonts.values()), vars };
}`

type styleProbe struct {
	Colors []string    `json:"colors"`
	Fonts  []fontProbe `json:"fonts"`
	Vars   []cssVar    `json:"vars"`
}

type fontProbe struct {
	Family string `json:"family"`
	Size   string `json:"size"`
	Weight string `json:"weight"`
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (e *BrandExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	var probe styleProbe
	if err := pc.Page.Evaluate(styleProbeJS, &probe); err != nil {
		return err
	}
	applyStyleProbe(probe, st.BrandElements)
	return nil
}

func applyStyleProbe(probe styleProbe, b *state.BrandElements) {
	for _, c := range probe.Colors {
		c = strings.TrimSpace(c)
		if c == "" || isTransparent(c) {
			continue
		}
		b.AddColor(c)
	}

	for _, f := range probe.Fonts {
		if key := FontKey(f.Family, f.Size, f.Weight); key != "" {
			b.AddFont(key)
		}
	}

	for _, v := range probe.Vars {
		name := strings.ToLower(v.Name)
		if !strings.Contains(name, "color") && !strings.Contains(name, "brand") {
			continue
		}
		if v.Value == "" || isTransparent(v.Value) {
			continue
		}
		b.AddColor(v.Value)
	}
}

var zeroAlpha = regexp.MustCompile(`^rgba\(\s*[\d.]+\s*,\s*[\d.]+\s*,\s*[\d.]+\s*,\s*0(\.0*)?\s*\)$`)

// isTransparent reports fully transparent serializations. Other notations of
// the same color are left alone: colors are compared as plain strings.
func isTransparent(c string) bool {
	c = strings.ToLower(strings.TrimSpace(c))
	return c == "transparent" || zeroAlpha.MatchString(c)
}

// FontKey builds "family (size, weight)" from the first family of a
// font-family stack, without quotes.
func FontKey(family, size, weight string) string {
	first := strings.SplitN(family, ",", 2)[0]
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if first == "" {
		return ""
	}
	return first + " (" + size + ", " + weight + ")"
}
