package analysis

import (
	"errors"
	"fmt"

	"github.com/japaniel/akshara/pkg/segment"
)

// Akshara is one reportable unit of a word.
type Akshara struct {
	Value     string `json:"value"`
	IsInvalid bool   `json:"isInvalid"`
}

// WordResult is the analysis of a single word.
type WordResult struct {
	Word         string    `json:"word"`
	Aksharas     []Akshara `json:"aksharas"`
	AksharaCount int       `json:"aksharasCount"`
	InvalidCount int       `json:"invalidCount"`
	Varnas       []string  `json:"varnas"`
	VarnaCount   int       `json:"varnasCount"`
}

// Set is the ordered analysis of every retained word, in input order.
type Set []WordResult

// ErrInconsistentSegmentation is returned when a segmenter's per-kind
// enumerations disagree with its token stream.
var ErrInconsistentSegmentation = errors.New("segmenter enumerations disagree with token stream")

// WordError reports which word a failure belongs to.
type WordError struct {
	Word string
	Err  error
}

func (e *WordError) Error() string { return fmt.Sprintf("analyze word %q: %v", e.Word, e.Err) }

func (e *WordError) Unwrap() error { return e.Err }

// WordAnalyzer turns one word into a WordResult using a Segmenter.
type WordAnalyzer struct {
	seg segment.Segmenter
}

// NewWordAnalyzer creates a WordAnalyzer backed by seg.
func NewWordAnalyzer(seg segment.Segmenter) *WordAnalyzer {
	return &WordAnalyzer{seg: seg}
}

// Analyze segments word once and builds its result.
// Tokens that are neither syllables nor invalid spans are dropped.
func (a *WordAnalyzer) Analyze(word string) (WordResult, error) {
	seg, err := a.seg.Segment(word)
	if err != nil {
		return WordResult{}, &WordError{Word: word, Err: err}
	}

	var aksharas []Akshara
	invalid := 0
	for _, tok := range seg.All {
		if tok.Kind != segment.Syllable && tok.Kind != segment.Invalid {
			continue
		}
		isInvalid := tok.Kind == segment.Invalid
		if isInvalid {
			invalid++
		}
		aksharas = append(aksharas, Akshara{Value: tok.Value, IsInvalid: isInvalid})
	}

	if len(aksharas) != len(seg.Aksharas) || invalid != len(seg.Invalid) {
		return WordResult{}, &WordError{
			Word: word,
			Err: fmt.Errorf("%w: stream has %d aksharas (%d invalid), enumerations have %d (%d invalid)",
				ErrInconsistentSegmentation, len(aksharas), invalid, len(seg.Aksharas), len(seg.Invalid)),
		}
	}

	varnas := make([]string, 0, len(seg.Varnas))
	for _, v := range seg.Varnas {
		varnas = append(varnas, v.Value)
	}

	return WordResult{
		Word:         word,
		Aksharas:     aksharas,
		AksharaCount: len(seg.Aksharas),
		InvalidCount: len(seg.Invalid),
		Varnas:       varnas,
		VarnaCount:   len(varnas),
	}, nil
}
