package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/japaniel/akshara/pkg/analysis"
)

// TextPresenter writes a terminal summary of an analysis set.
type TextPresenter struct {
	w       io.Writer
	header  *color.Color
	label   *color.Color
	invalid *color.Color
}

// NewTextPresenter creates a TextPresenter writing to w. Colors are disabled
// unless useColor is set.
func NewTextPresenter(w io.Writer, useColor bool) *TextPresenter {
	tp := &TextPresenter{
		w:       w,
		header:  color.New(color.Bold),
		label:   color.New(color.FgCyan),
		invalid: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{tp.header, tp.label, tp.invalid} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return tp
}

// Render writes one block per word, or NotAvailable for an empty set.
func (tp *TextPresenter) Render(set analysis.Set) error {
	if len(set) == 0 {
		_, err := fmt.Fprintln(tp.w, NotAvailable)
		return err
	}
	for _, res := range set {
		if err := tp.word(res); err != nil {
			return err
		}
	}
	return nil
}

func (tp *TextPresenter) word(res analysis.WordResult) error {
	parts := make([]string, 0, len(res.Aksharas))
	for _, a := range res.Aksharas {
		if a.IsInvalid {
			parts = append(parts, tp.invalid.Sprintf("[%s]", a.Value))
		} else {
			parts = append(parts, a.Value)
		}
	}
	counts := fmt.Sprintf("(%d)", res.AksharaCount)
	if res.InvalidCount > 0 {
		counts += " " + tp.invalid.Sprintf("%d invalid", res.InvalidCount)
	}

	// The rule under the word matches its display width, not its byte or rune count.
	rule := strings.Repeat("─", max(runewidth.StringWidth(res.Word), 1))
	_, err := fmt.Fprintf(tp.w, "%s\n%s\n  %s %s: %s\n  %s (%d): %s\n",
		tp.header.Sprint(res.Word), rule,
		tp.label.Sprint("aksharas"), counts, orNA(strings.Join(parts, " · ")),
		tp.label.Sprint("varnas"), res.VarnaCount, orNA(strings.Join(res.Varnas, " · ")),
	)
	return err
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
