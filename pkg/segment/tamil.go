package segment

import (
	"golang.org/x/text/unicode/norm"
)

const (
	pulli     = '\u0BCD'
	aytham    = '\u0B83'
	anusvara  = '\u0B82'
	auLength  = '\u0BD7'
	inherentA = "அ"
)

// vowelSigns maps each dependent vowel sign to its independent vowel.
var vowelSigns = map[rune]rune{
	'ா': 'ஆ',
	'ி': 'இ',
	'ீ': 'ஈ',
	'ு': 'உ',
	'ூ': 'ஊ',
	'ெ': 'எ',
	'ே': 'ஏ',
	'ை': 'ஐ',
	'ொ': 'ஒ',
	'ோ': 'ஓ',
	'ௌ': 'ஔ',
}

var tamilVowels = runeSet("அஆஇஈஉஊஎஏஐஒஓஔ")

// Includes the grantha consonants ஜ ஶ ஷ ஸ ஹ.
var tamilConsonants = runeSet("கஙசஜஞடணதநனபமயரறலளழவஶஷஸஹ")

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool)
	for _, r := range s {
		m[r] = true
	}
	return m
}

// Tamil segments words written in the Tamil script.
//
// Uyir (vowels) and the aytham are aksharas of their own. A consonant with
// pulli is a mei akshara; a consonant followed by a vowel sign, or bare with its
// inherent vowel, is an uyirmei akshara whose varnas are the mei and the uyir.
// Combining marks without a consonant base are reported as invalid.
type Tamil struct{}

// NewTamil returns a Tamil segmenter.
func NewTamil() *Tamil { return &Tamil{} }

// Segment implements Segmenter. It never fails.
func (Tamil) Segment(word string) (Segmentation, error) {
	// NFC composes split vowel signs such as ெ + ா into ொ.
	runes := []rune(norm.NFC.String(word))
	var b builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case tamilConsonants[r]:
			mei := string([]rune{r, pulli})
			if i+1 < len(runes) {
				next := runes[i+1]
				if next == pulli {
					b.emit(mei, Syllable, mei)
					i++
					continue
				}
				if uyir, ok := vowelSigns[next]; ok {
					b.emit(string([]rune{r, next}), Syllable, mei, string(uyir))
					i++
					continue
				}
			}
			b.emit(string(r), Syllable, mei, inherentA)
		case tamilVowels[r], r == aytham:
			b.emit(string(r), Syllable, string(r))
		case isCombiningMark(r):
			b.emit(string(r), Invalid)
		default:
			// Connector marks, Tamil numerals and symbols, and runes from other scripts.
			b.emit(string(r), Other)
		}
	}
	return b.seg, nil
}

func isCombiningMark(r rune) bool {
	if _, ok := vowelSigns[r]; ok {
		return true
	}
	return r == pulli || r == auLength || r == anusvara
}
