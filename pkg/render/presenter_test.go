package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/japaniel/akshara/pkg/analysis"
)

func result(word string, aksharas []analysis.Akshara, varnas []string) analysis.WordResult {
	invalid := 0
	for _, a := range aksharas {
		if a.IsInvalid {
			invalid++
		}
	}
	return analysis.WordResult{
		Word:         word,
		Aksharas:     aksharas,
		AksharaCount: len(aksharas),
		InvalidCount: invalid,
		Varnas:       varnas,
		VarnaCount:   len(varnas),
	}
}

func TestAksharaContentSeparator(t *testing.T) {
	p, err := NewPresenter(nil)
	if err != nil {
		t.Fatal(err)
	}
	got := p.AksharaContent([]analysis.Akshara{{Value: "ta"}, {Value: "mi", IsInvalid: true}})
	want := `<span>ta</span>&nbsp;· <span class="invalid">&nbsp;mi&nbsp;</span>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestContentFallsBackToNA(t *testing.T) {
	p, _ := NewPresenter(nil)
	tests := []struct {
		name string
		got  string
	}{
		{"all-empty aksharas", p.AksharaContent([]analysis.Akshara{{Value: ""}, {Value: "", IsInvalid: true}})},
		{"no aksharas", p.AksharaContent(nil)},
		{"no varnas", p.VarnaContent(nil)},
		{"all-empty varnas", p.VarnaContent([]string{"", ""})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != NotAvailable {
				t.Errorf("got %q, want %q", tt.got, NotAvailable)
			}
		})
	}
}

func TestRenderItem(t *testing.T) {
	surface := NewMemorySurface("<p>Type something</p>")
	p, err := NewPresenter(surface)
	if err != nil {
		t.Fatal(err)
	}
	set := analysis.Set{
		result("தமிழ்", []analysis.Akshara{{Value: "த"}, {Value: "மி"}, {Value: "ழ்"}}, []string{"த்", "அ", "ம்", "இ", "ழ்"}),
	}
	if err := p.Render(set); err != nil {
		t.Fatal(err)
	}

	got, _ := surface.Content()
	want := `
    <div class="analysis-item">
      <div class="header">தமிழ்</div>
      <div class="details">
        <div class="title">Aksharas</div>
        <div class="counters"><span>3</span></div>
        <div class="content"><span>த</span>&nbsp;· <span>மி</span>&nbsp;· <span>ழ்</span></div>
      </div>
      <div class="details">
        <div class="title">Varnas</div>
        <div class="counters"><span>5</span></div>
        <div class="content">த்&nbsp;· அ&nbsp;· ம்&nbsp;· இ&nbsp;· ழ்</div>
      </div>
    </div>`
	if got != want {
		t.Fatalf("unexpected markup:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderInvalidCounterAndEscaping(t *testing.T) {
	p, _ := NewPresenter(NewMemorySurface(""))
	set := analysis.Set{
		result("<b>x", []analysis.Akshara{{Value: "x"}, {Value: "ா", IsInvalid: true}}, nil),
	}
	markup := p.Markup(set)
	if !strings.Contains(markup, `<div class="header">&lt;b&gt;x</div>`) {
		t.Errorf("header not escaped:\n%s", markup)
	}
	if !strings.Contains(markup, `<div class="counters"><span>2</span><span class="invalid">1</span></div>`) {
		t.Errorf("missing invalid counter:\n%s", markup)
	}
	if !strings.Contains(markup, `<div class="content">N/A</div>`) {
		t.Errorf("empty varnas should render N/A:\n%s", markup)
	}
}

func TestRenderEmptyRestoresPlaceholder(t *testing.T) {
	const placeholder = "<p>Type something</p>"
	surface := NewMemorySurface(placeholder)
	p, _ := NewPresenter(surface)

	set := analysis.Set{result("a", []analysis.Akshara{{Value: "a"}}, []string{"a"})}
	if err := p.Render(set); err != nil {
		t.Fatal(err)
	}
	if err := p.Render(nil); err != nil {
		t.Fatal(err)
	}
	if got, _ := surface.Content(); got != placeholder {
		t.Fatalf("content = %q, want placeholder %q", got, placeholder)
	}
}

func TestRenderReplacesWholeContent(t *testing.T) {
	surface := NewMemorySurface("")
	p, _ := NewPresenter(surface)

	first := analysis.Set{result("one", []analysis.Akshara{{Value: "o"}}, nil)}
	second := analysis.Set{result("two", []analysis.Akshara{{Value: "t"}}, nil)}
	_ = p.Render(first)
	_ = p.Render(second)

	got, _ := surface.Content()
	if got != p.Markup(second) {
		t.Fatalf("content is not exactly the latest markup:\n%s", got)
	}
	if strings.Contains(got, "one") {
		t.Fatal("previous render leaked into content")
	}
}

func TestEmptySurfacePlaceholderDefaults(t *testing.T) {
	p, _ := NewPresenter(NewMemorySurface(""))
	if p.Placeholder() != NotAvailable {
		t.Errorf("placeholder = %q, want %q", p.Placeholder(), NotAvailable)
	}
	p, _ = NewPresenter(NewMemorySurface(""), WithDefaultPlaceholder("<p>empty</p>"))
	if p.Placeholder() != "<p>empty</p>" {
		t.Errorf("placeholder = %q", p.Placeholder())
	}
	p, _ = NewPresenter(NewMemorySurface("<p>kept</p>"), WithDefaultPlaceholder("<p>empty</p>"))
	if p.Placeholder() != "<p>kept</p>" {
		t.Errorf("captured content should win, got %q", p.Placeholder())
	}
}

func TestRenderWithoutSurfaceIsNoop(t *testing.T) {
	p, err := NewPresenter(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Render(analysis.Set{result("a", []analysis.Akshara{{Value: "a"}}, nil)}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

type brokenSurface struct{}

func (brokenSurface) Content() (string, error) { return "", errors.New("unreadable") }
func (brokenSurface) Replace(string) error     { return nil }

func TestNewPresenterCaptureError(t *testing.T) {
	if _, err := NewPresenter(brokenSurface{}); err == nil {
		t.Fatal("expected error when the placeholder cannot be captured")
	}
}
