package analysis

import (
	"errors"
	"sync/atomic"
	"unicode"

	"github.com/japaniel/akshara/pkg/segment"
)

var errBoom = errors.New("malformed word")

// letterSegmenter treats each lowercase letter as an akshara, each uppercase
// letter as an invalid span and everything else as noise. The word "boom" fails.
type letterSegmenter struct {
	calls atomic.Int32
}

func (s *letterSegmenter) Segment(word string) (segment.Segmentation, error) {
	s.calls.Add(1)
	if word == "boom" {
		return segment.Segmentation{}, errBoom
	}
	var seg segment.Segmentation
	for _, r := range word {
		tok := segment.Token{Value: string(r)}
		switch {
		case unicode.IsLower(r):
			tok.Kind = segment.Syllable
			seg.Aksharas = append(seg.Aksharas, tok)
			seg.Varnas = append(seg.Varnas, segment.Varna{Value: string(r)})
		case unicode.IsUpper(r):
			tok.Kind = segment.Invalid
			seg.Aksharas = append(seg.Aksharas, tok)
			seg.Invalid = append(seg.Invalid, tok)
		default:
			tok.Kind = segment.Other
		}
		seg.All = append(seg.All, tok)
	}
	return seg, nil
}
