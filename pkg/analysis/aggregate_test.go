package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/japaniel/akshara/pkg/segment"
)

func words(set Set) []string {
	var out []string
	for _, r := range set {
		out = append(out, r.Word)
	}
	return out
}

func TestAggregateOrderAndNoise(t *testing.T) {
	ag := NewAggregator(&letterSegmenter{})

	set, err := ag.Aggregate(Tokenize("one 12 two. one (345) three"))
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	want := []string{"one", "two", "one", "three"}
	if got := words(set); !reflect.DeepEqual(got, want) {
		t.Fatalf("words = %q, want %q", got, want)
	}
}

func TestAggregateDigitsOnlyIsEmpty(t *testing.T) {
	ag := NewAggregator(segment.NewTamil())
	set, err := ag.Aggregate(Tokenize("12 345"))
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %+v", set)
	}
}

func TestAggregateFailureIsFatal(t *testing.T) {
	seg := &letterSegmenter{}
	ag := NewAggregator(seg)

	_, err := ag.Aggregate([]string{"a", "boom", "b"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if calls := seg.calls.Load(); calls != 2 {
		t.Errorf("expected analysis to stop after the failing word, got %d calls", calls)
	}
}

func TestAggregateIsolateFailures(t *testing.T) {
	ag := NewAggregator(&letterSegmenter{})
	ag.IsolateFailures = true

	set, err := ag.Aggregate([]string{"a", "boom", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := words(set); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("words = %q", got)
	}
}

func TestAggregateParallelMatchesSequential(t *testing.T) {
	var input []string
	for i := 0; i < 500; i++ {
		input = append(input, fmt.Sprintf("w%dx", i), "42", "aBc")
	}

	seq, err := NewAggregator(&letterSegmenter{}).Aggregate(input)
	if err != nil {
		t.Fatal(err)
	}

	par := NewAggregator(&letterSegmenter{})
	par.Workers = 8
	got, err := par.AggregateContext(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, seq) {
		t.Fatal("parallel aggregation differs from sequential aggregation")
	}
}

func TestAggregateParallelReportsFirstFailure(t *testing.T) {
	ag := NewAggregator(&letterSegmenter{})
	ag.Workers = 4
	_, err := ag.Aggregate([]string{"a", "b", "boom", "c", "d"})
	var we *WordError
	if !errors.As(err, &we) || we.Word != "boom" {
		t.Fatalf("expected WordError for boom, got %v", err)
	}
}

func TestAggregateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		ag := NewAggregator(&letterSegmenter{})
		ag.Workers = workers
		_, err := ag.AggregateContext(ctx, []string{"a", "b", "c"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}
