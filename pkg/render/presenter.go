package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/japaniel/akshara/pkg/analysis"
)

const (
	// Separator joins aksharas and varnas in the rendered content.
	Separator = "&nbsp;· "
	// NotAvailable is shown in place of empty content.
	NotAvailable = "N/A"
)

const itemFormat = `
    <div class="analysis-item">
      <div class="header">%s</div>
      <div class="details">
        <div class="title">Aksharas</div>
        <div class="counters">%s</div>
        <div class="content">%s</div>
      </div>
      <div class="details">
        <div class="title">Varnas</div>
        <div class="counters">%s</div>
        <div class="content">%s</div>
      </div>
    </div>`

// Presenter renders analysis sets into a Surface.
// The surface's content at construction time is kept as the placeholder
// restored whenever there is nothing to show.
type Presenter struct {
	surface     Surface
	placeholder string
	sanitize    func(string) string
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithSanitizer replaces the function used to escape text embedded in markup.
func WithSanitizer(f func(string) string) Option {
	return func(p *Presenter) { p.sanitize = f }
}

// WithDefaultPlaceholder sets the placeholder used when the surface starts empty.
func WithDefaultPlaceholder(markup string) Option {
	return func(p *Presenter) {
		if p.placeholder == "" {
			p.placeholder = markup
		}
	}
}

// NewPresenter creates a Presenter for surface and captures its current
// content as the placeholder. A nil surface gives a presenter whose Render
// does nothing.
func NewPresenter(surface Surface, opts ...Option) (*Presenter, error) {
	p := &Presenter{surface: surface, sanitize: html.EscapeString}
	if surface != nil {
		initial, err := surface.Content()
		if err != nil {
			return nil, fmt.Errorf("capture placeholder: %w", err)
		}
		p.placeholder = initial
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.placeholder == "" {
		p.placeholder = NotAvailable
	}
	return p, nil
}

// Placeholder returns the markup shown for an empty analysis.
func (p *Presenter) Placeholder() string { return p.placeholder }

// Render replaces the surface content with the markup for set, or with the
// placeholder when set is empty.
func (p *Presenter) Render(set analysis.Set) error {
	if p.surface == nil {
		return nil
	}
	return p.surface.Replace(p.Markup(set))
}

// Markup returns what Render would write for set.
func (p *Presenter) Markup(set analysis.Set) string {
	if len(set) == 0 {
		return p.placeholder
	}
	var b strings.Builder
	for _, res := range set {
		b.WriteString(p.item(res))
	}
	return b.String()
}

func (p *Presenter) item(res analysis.WordResult) string {
	counters := span(strconv.Itoa(res.AksharaCount))
	if res.InvalidCount > 0 {
		counters += invalidSpan(strconv.Itoa(res.InvalidCount))
	}
	return fmt.Sprintf(itemFormat,
		p.sanitize(res.Word),
		counters,
		p.AksharaContent(res.Aksharas),
		span(strconv.Itoa(res.VarnaCount)),
		p.VarnaContent(res.Varnas),
	)
}

// AksharaContent renders the akshara list of one word. Invalid aksharas are
// padded and marked with the "invalid" class.
func (p *Presenter) AksharaContent(aksharas []analysis.Akshara) string {
	empty := true
	parts := make([]string, 0, len(aksharas))
	for _, a := range aksharas {
		if a.Value != "" {
			empty = false
		}
		v := p.sanitize(a.Value)
		if a.IsInvalid {
			parts = append(parts, `<span class="invalid">&nbsp;`+v+`&nbsp;</span>`)
		} else {
			parts = append(parts, span(v))
		}
	}
	if empty {
		return NotAvailable
	}
	return strings.Join(parts, Separator)
}

// VarnaContent renders the varna list of one word.
func (p *Presenter) VarnaContent(varnas []string) string {
	empty := true
	parts := make([]string, 0, len(varnas))
	for _, v := range varnas {
		if v != "" {
			empty = false
		}
		parts = append(parts, p.sanitize(v))
	}
	if empty {
		return NotAvailable
	}
	return strings.Join(parts, Separator)
}

func span(s string) string { return "<span>" + s + "</span>" }

func invalidSpan(s string) string { return `<span class="invalid">` + s + "</span>" }
