package analysis

import (
	"context"
	"log/slog"

	"github.com/japaniel/akshara/pkg/segment"
)

// Aggregator analyzes every word of an input and keeps the ones that
// contain at least one akshara.
type Aggregator struct {
	words *WordAnalyzer

	// Workers > 1 analyzes words on a WorkerPool; the segmenter must then be
	// safe for concurrent use. Output order is unchanged.
	Workers int
	// IsolateFailures skips words whose analysis fails instead of failing the run.
	IsolateFailures bool
	// Logger receives warnings about skipped words. nil means no logging.
	Logger *slog.Logger
}

// NewAggregator creates a sequential Aggregator backed by seg.
func NewAggregator(seg segment.Segmenter) *Aggregator {
	return &Aggregator{
		words:   NewWordAnalyzer(seg),
		Workers: 1,
	}
}

// outcome holds the analysis of the word at the same index.
type outcome struct {
	result WordResult
	err    error
}

// Aggregate analyzes words in order. See AggregateContext.
func (ag *Aggregator) Aggregate(words []string) (Set, error) {
	return ag.AggregateContext(context.Background(), words)
}

// AggregateContext analyzes words and returns the results of those with at
// least one akshara, in input order. Repeated words each get their own entry.
// The first failing word (by position) fails the whole call unless
// IsolateFailures is set.
func (ag *Aggregator) AggregateContext(ctx context.Context, words []string) (Set, error) {
	if ag.Workers <= 1 || len(words) < 2 {
		return ag.sequential(ctx, words)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(words))

	wp := NewWorkerPool(ag.Workers, ag.Workers*2)
	wp.Start(ctx)

	var submitErr error
	for i := range words {
		idx := i
		err := wp.SubmitCtx(ctx, func(ctx context.Context) {
			res, err := ag.words.Analyze(words[idx])
			outcomes[idx] = outcome{result: res, err: err}
		})
		if err != nil {
			submitErr = err
			break
		}
	}
	// Close waits for the workers, so outcomes is safe to read afterwards.
	wp.Close()

	if submitErr != nil {
		return nil, submitErr
	}
	// Workers abandon queued jobs once ctx is done.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ag.collect(words, outcomes)
}

func (ag *Aggregator) sequential(ctx context.Context, words []string) (Set, error) {
	set := Set{}
	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := ag.words.Analyze(word)
		if err != nil {
			if !ag.IsolateFailures {
				return nil, err
			}
			ag.warnSkipped(word, err)
			continue
		}
		if len(res.Aksharas) < 1 {
			continue
		}
		set = append(set, res)
	}
	return set, nil
}

func (ag *Aggregator) collect(words []string, outcomes []outcome) (Set, error) {
	set := Set{}
	for i, o := range outcomes {
		if o.err != nil {
			if !ag.IsolateFailures {
				return nil, o.err
			}
			ag.warnSkipped(words[i], o.err)
			continue
		}
		if len(o.result.Aksharas) < 1 {
			continue
		}
		set = append(set, o.result)
	}
	return set, nil
}

func (ag *Aggregator) warnSkipped(word string, err error) {
	if ag.Logger != nil {
		ag.Logger.Warn("skipping word that failed analysis", "word", word, "error", err)
	}
}
