package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/japaniel/akshara/pkg/analysis"
	"github.com/japaniel/akshara/pkg/render"
)

// DefaultWindow is the quiescence window used when none is configured.
const DefaultWindow = 300 * time.Millisecond

// Pipeline ties tokenization, aggregation and rendering together and exposes
// a debounced entry point for rapidly changing input.
type Pipeline struct {
	aggregator *analysis.Aggregator
	presenter  *render.Presenter
	logger     *slog.Logger
	onError    func(error)
	window     time.Duration
	clock      Clock

	debouncer *Debouncer[string]
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithErrorHandler receives the errors of scheduled runs.
func WithErrorHandler(f func(error)) Option { return func(p *Pipeline) { p.onError = f } }

// WithWindow sets the debounce quiescence window.
func WithWindow(d time.Duration) Option { return func(p *Pipeline) { p.window = d } }

// WithClock replaces the clock driving the debounce timer.
func WithClock(c Clock) Option { return func(p *Pipeline) { p.clock = c } }

// New creates a Pipeline analyzing with ag and rendering with presenter.
func New(ag *analysis.Aggregator, presenter *render.Presenter, opts ...Option) *Pipeline {
	p := &Pipeline{
		aggregator: ag,
		presenter:  presenter,
		logger:     slog.Default(),
		window:     DefaultWindow,
		clock:      RealClock,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.debouncer = NewDebouncer(p.window, p.clock, p.runScheduled)
	return p
}

// Run analyzes input and renders the result synchronously. If analysis
// fails nothing is rendered and the surface keeps its previous content.
func (p *Pipeline) Run(input string) error {
	return p.RunContext(context.Background(), input)
}

// RunContext is Run with a context bounding the analysis.
func (p *Pipeline) RunContext(ctx context.Context, input string) error {
	start := time.Now()
	words := analysis.Tokenize(input)
	set, err := p.aggregator.AggregateContext(ctx, words)
	if err != nil {
		return fmt.Errorf("analyze input: %w", err)
	}
	if err := p.presenter.Render(set); err != nil {
		return fmt.Errorf("render analysis: %w", err)
	}
	p.logger.Debug("rendered analysis",
		"words", len(words),
		"retained", len(set),
		"elapsed", time.Since(start),
	)
	return nil
}

// Schedule runs the pipeline for input once the window passes without
// another Schedule call. Only the latest input of a burst is analyzed.
func (p *Pipeline) Schedule(input string) {
	p.debouncer.Trigger(input)
}

// Pending reports whether a scheduled run is waiting for its window.
func (p *Pipeline) Pending() bool { return p.debouncer.Pending() }

// Flush runs a scheduled run now. It reports whether one was pending.
func (p *Pipeline) Flush() bool { return p.debouncer.Flush() }

// Stop drops any scheduled run.
func (p *Pipeline) Stop() { p.debouncer.Cancel() }

func (p *Pipeline) runScheduled(input string) {
	if err := p.Run(input); err != nil {
		p.logger.Error("scheduled analysis failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	}
}
