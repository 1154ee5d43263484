// Package pagetest provides an in-memory model.Page for tests.
package pagetest

import (
	"context"
	"errors"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

// ErrTimeout is returned by WaitFor when the condition is false.
var ErrTimeout = errors.New("pagetest: condition not met")

var _ model.Page = (*Page)(nil)

// Typed records one TypeInto call.
type Typed struct {
	Selector string
	Text     string
}

// Page is a scripted page. Reads come from the maps; actions are recorded and
// fail with the configured errors. WaitFor checks its condition once and never sleeps.
type Page struct {
	Texts map[string]string
	Lists map[string][]string
	Attrs map[string]string // key: selector + "@" + attr
	URL   string

	ClickErrs   map[string]error
	TypeErr     error
	NavigateErr error

	// OnClick and OnNavigate run after a successful action, e.g. to change the URL.
	OnClick    func(selector string)
	OnNavigate func(url string)

	Clicks      []string
	Typed       []Typed
	Navigations []string
}

func (p *Page) Text(_ context.Context, fieldID string) string {
	return p.Texts[fieldID]
}

func (p *Page) TextList(_ context.Context, fieldID string) []string {
	return p.Lists[fieldID]
}

func (p *Page) Attribute(_ context.Context, selector, attr string) (string, bool) {
	v, ok := p.Attrs[selector+"@"+attr]
	return v, ok
}

func (p *Page) Click(_ context.Context, selector string) error {
	if err := p.ClickErrs[selector]; err != nil {
		return err
	}
	p.Clicks = append(p.Clicks, selector)
	if p.OnClick != nil {
		p.OnClick(selector)
	}
	return nil
}

func (p *Page) TypeInto(_ context.Context, selector, text string) error {
	if p.TypeErr != nil {
		return p.TypeErr
	}
	p.Typed = append(p.Typed, Typed{Selector: selector, Text: text})
	return nil
}

func (p *Page) Navigate(_ context.Context, url string) error {
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.Navigations = append(p.Navigations, url)
	p.URL = url
	if p.OnNavigate != nil {
		p.OnNavigate(url)
	}
	return nil
}

func (p *Page) Location(_ context.Context) (string, error) {
	return p.URL, nil
}

func (p *Page) WaitFor(ctx context.Context, cond func(ctx context.Context) bool, _ time.Duration) error {
	if cond(ctx) {
		return nil
	}
	return ErrTimeout
}
