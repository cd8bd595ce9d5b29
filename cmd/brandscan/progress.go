package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ramkansal/brandscan/pkg/plugin"
)

// progress renders crawl events as a single spinner line.
type progress struct {
	spin    *spinner.Spinner
	enabled bool

	crawled int
	errored int
	current string
}

func newProgress(w io.Writer, enabled bool) *progress {
	return &progress{
		spin:    spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w)),
		enabled: enabled,
	}
}

func (p *progress) handle(event plugin.CrawlEvent) {
	switch event.Type {
	case plugin.EventCrawlStarted:
		p.current = event.URL
		if p.enabled {
			p.spin.Start()
		}
	case plugin.EventPageStarted:
		p.current = event.URL
	case plugin.EventPageDone:
		p.crawled++
	case plugin.EventPageError:
		p.errored++
	case plugin.EventCrawlFinished:
		if p.enabled {
			p.spin.Stop()
		}
		return
	default:
		return
	}

	if p.enabled {
		p.spin.Lock()
		p.spin.Suffix = " " + p.line()
		p.spin.Unlock()
	}
}

func (p *progress) line() string {
	return fmt.Sprintf("%d pages, %d errors  %s", p.crawled, p.errored, p.current)
}
