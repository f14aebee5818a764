package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/japaniel/akshara/pkg/analysis"
	"github.com/japaniel/akshara/pkg/render"
	"github.com/japaniel/akshara/pkg/source"
)

func (a *app) newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze text once and print the result",
		Long: `analyze reads text from its arguments, a file, a web page or stdin and
prints the akshara/varna analysis of every word that has at least one akshara.`,
		RunE: a.runAnalyze,
	}
	f := cmd.Flags()
	f.StringVar(&a.flags.File, "file", "", "read text from a file")
	f.StringVar(&a.flags.URL, "url", "", "fetch a web page and analyze its article text")
	f.StringVarP(&a.flags.Format, "format", "f", "html", "output format (html|text|json|msgpack)")
	f.StringVarP(&a.flags.Output, "output", "o", "", "write the result to a file instead of stdout")
	f.Int("workers", 1, "analyze words in parallel with this many workers")
	f.BoolVar(&a.flags.IsolateFailures, "isolate-failures", false, "skip words that fail analysis instead of aborting")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	a.v.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	text, err := a.readInput(cmd, args)
	if err != nil {
		return err
	}
	ag, err := a.newAggregator()
	if err != nil {
		return err
	}

	start := time.Now()
	words := analysis.Tokenize(text)
	set, err := ag.AggregateContext(cmd.Context(), words)
	if err != nil {
		return err
	}
	a.logger.Debug("analysis complete", "words", len(words), "retained", len(set), "elapsed", time.Since(start))

	var buf bytes.Buffer
	if err := a.writeSet(&buf, set); err != nil {
		return err
	}

	if a.flags.Output == "" {
		_, err := io.Copy(a.stdout, &buf)
		return err
	}
	if err := render.NewFileSurface(a.flags.Output, "").Replace(buf.String()); err != nil {
		return err
	}
	a.logger.Info("wrote analysis", "path", a.flags.Output, "words", len(set))
	return nil
}

func (a *app) readInput(cmd *cobra.Command, args []string) (string, error) {
	if a.flags.URL == "" {
		return source.ReadText(args, a.stdin, a.flags.File)
	}
	if len(args) > 0 {
		return "", errors.New("text arguments and --url are mutually exclusive")
	}
	a.logger.Info("fetching", "url", a.flags.URL)
	article, err := source.NewFetcher(time.Minute, source.WithFetchLogger(a.logger)).Fetch(cmd.Context(), a.flags.URL)
	if err != nil {
		return "", err
	}
	a.logger.Info("extracted article", "title", article.Title, "site", article.SiteName, "chars", len(article.Text))
	return article.Text, nil
}

func (a *app) writeSet(w io.Writer, set analysis.Set) error {
	switch a.flags.Format {
	case "html":
		presenter, err := render.NewPresenter(nil, render.WithDefaultPlaceholder(a.v.GetString("placeholder")))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, presenter.Markup(set)+"\n")
		return err
	case "text":
		useColor, err := a.useColor(a.stdout)
		if err != nil {
			return err
		}
		if a.flags.Output != "" {
			useColor = false
		}
		return render.NewTextPresenter(w, useColor).Render(set)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(set)
	default:
		return fmt.Errorf("unsupported format %q (must be html, text, json or msgpack)", a.flags.Format)
	}
}
