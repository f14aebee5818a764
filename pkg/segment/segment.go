package segment

import (
	"errors"
	"fmt"
	"sort"
)

// Kind classifies a Token emitted by a Segmenter.
type Kind int

const (
	// Other marks tokens that are not reportable units (connector marks, digits, foreign runes).
	Other Kind = iota
	// Syllable marks a well-formed akshara.
	Syllable
	// Invalid marks a span that cannot be segmented into a valid akshara.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Syllable:
		return "syllable"
	case Invalid:
		return "invalid"
	default:
		return "other"
	}
}

// Token is one atomic unit of a segmenter's output for a word.
type Token struct {
	Value string
	Kind  Kind
}

// Varna is a phonemic segment.
type Varna struct {
	Value string
}

// Segmentation is the full output of a Segmenter for one word.
// All is the flat token stream in emission order. Aksharas enumerates every
// akshara position, valid or not; Invalid enumerates the invalid ones only.
type Segmentation struct {
	All      []Token
	Aksharas []Token
	Invalid  []Token
	Varnas   []Varna
}

// Segmenter splits a single word into aksharas and varnas.
// Implementations must be deterministic for a given word.
type Segmenter interface {
	Segment(word string) (Segmentation, error)
}

// SegmenterFunc adapts a plain function to the Segmenter interface.
type SegmenterFunc func(word string) (Segmentation, error)

// Segment calls f(word).
func (f SegmenterFunc) Segment(word string) (Segmentation, error) { return f(word) }

// builder accumulates a Segmentation while keeping the per-kind enumerations in sync with All.
type builder struct {
	seg Segmentation
}

func (b *builder) emit(value string, kind Kind, varnas ...string) {
	tok := Token{Value: value, Kind: kind}
	b.seg.All = append(b.seg.All, tok)
	if kind != Other {
		b.seg.Aksharas = append(b.seg.Aksharas, tok)
	}
	if kind == Invalid {
		b.seg.Invalid = append(b.seg.Invalid, tok)
	}
	for _, v := range varnas {
		b.seg.Varnas = append(b.seg.Varnas, Varna{Value: v})
	}
}

// ErrUnknownScript is returned by ByName for an unregistered script name.
var ErrUnknownScript = errors.New("unknown script")

var registry = map[string]func() (Segmenter, error){
	"tamil": func() (Segmenter, error) { return NewTamil(), nil },
	"kana": func() (Segmenter, error) {
		k, err := NewKana()
		if err != nil {
			return nil, err
		}
		return k, nil
	},
}

// ByName returns the segmenter registered under name.
func ByName(name string) (Segmenter, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScript, name, Names())
	}
	return ctor()
}

// Names lists the registered script names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
