package segment

import (
	"regexp"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Kana segments Japanese words into morae (shown in hiragana) and their
// consonant/vowel phonemes. Kanji are resolved to readings with kagome's IPA
// dictionary; morphemes without a reading are reported as invalid.
type Kana struct {
	t *tokenizer.Tokenizer
}

// NewKana creates a kagome-backed Kana segmenter.
func NewKana() (*Kana, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kana{t: t}, nil
}

var asciiRegex = regexp.MustCompile(`^[a-zA-Z0-9\s[:punct:]]+$`)

// Segment implements Segmenter.
func (k *Kana) Segment(word string) (Segmentation, error) {
	var b builder
	for _, token := range k.t.Tokenize(word) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := token.Surface
		if strings.TrimSpace(surface) == "" {
			continue
		}

		// Kagome IPA features: 0 POS, 1-3 sub-POS, 4-5 conjugation, 6 base form, 7 reading.
		features := token.Features()
		if isNonWord(surface, features) {
			b.emit(surface, Other)
			continue
		}

		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		} else if isKana(surface) {
			reading = toKatakana(surface)
		}
		if reading == "" {
			b.emit(surface, Invalid)
			continue
		}

		for _, mora := range splitMorae(reading) {
			b.emit(toHiragana(mora), Syllable, moraPhonemes(mora)...)
		}
	}
	return b.seg, nil
}

func isNonWord(surface string, features []string) bool {
	if len(features) > 0 && (features[0] == "記号" || features[0] == "補助記号") {
		return true
	}
	if len(features) > 1 && features[1] == "数" {
		return true
	}
	return asciiRegex.MatchString(surface)
}

func isKana(s string) bool {
	for _, r := range s {
		if !(r >= 0x3041 && r <= 0x3096) && !(r >= 0x30A1 && r <= 0x30FA) && r != 'ー' {
			return false
		}
	}
	return s != ""
}

// toHiragana converts Katakana to Hiragana.
func toHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

func toKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x3041 && r <= 0x3096 {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}

// Small kana that attach to the preceding mora. ッ is a mora of its own.
var smallKana = runeSet("ァィゥェォャュョヮ")

func splitMorae(reading string) []string {
	var morae []string
	for _, r := range reading {
		if smallKana[r] && len(morae) > 0 {
			morae[len(morae)-1] += string(r)
			continue
		}
		morae = append(morae, string(r))
	}
	return morae
}

type phonemePair struct {
	consonant string
	vowel     string
}

var kanaPhonemes = buildKanaPhonemes()

func buildKanaPhonemes() map[rune]phonemePair {
	rows := []struct {
		consonant string
		kana      string
	}{
		{"", "アイウエオ"},
		{"k", "カキクケコ"},
		{"g", "ガギグゲゴ"},
		{"s", "サシスセソ"},
		{"z", "ザジズゼゾ"},
		{"t", "タチツテト"},
		{"d", "ダヂヅデド"},
		{"n", "ナニヌネノ"},
		{"h", "ハヒフヘホ"},
		{"b", "バビブベボ"},
		{"p", "パピプペポ"},
		{"m", "マミムメモ"},
		{"r", "ラリルレロ"},
	}
	vowels := []string{"a", "i", "u", "e", "o"}
	m := make(map[rune]phonemePair)
	for _, row := range rows {
		for i, r := range []rune(row.kana) {
			m[r] = phonemePair{row.consonant, vowels[i]}
		}
	}
	for i, r := range []rune("ァィゥェォ") {
		m[r] = phonemePair{"", vowels[i]}
	}
	// Hepburn irregulars.
	m['シ'] = phonemePair{"sh", "i"}
	m['ジ'] = phonemePair{"j", "i"}
	m['チ'] = phonemePair{"ch", "i"}
	m['ヂ'] = phonemePair{"j", "i"}
	m['ツ'] = phonemePair{"ts", "u"}
	m['ヅ'] = phonemePair{"z", "u"}
	m['フ'] = phonemePair{"f", "u"}
	m['ヤ'] = phonemePair{"y", "a"}
	m['ユ'] = phonemePair{"y", "u"}
	m['ヨ'] = phonemePair{"y", "o"}
	m['ワ'] = phonemePair{"w", "a"}
	m['ヲ'] = phonemePair{"", "o"}
	m['ヴ'] = phonemePair{"v", "u"}
	return m
}

var palatalVowels = map[rune]string{'ャ': "a", 'ュ': "u", 'ョ': "o"}

// moraPhonemes returns the consonant and vowel phonemes of a katakana mora.
func moraPhonemes(mora string) []string {
	runes := []rune(mora)
	switch runes[0] {
	case 'ン':
		return []string{"N"}
	case 'ッ':
		return []string{"Q"}
	case 'ー':
		return []string{":"}
	}
	base, ok := kanaPhonemes[runes[0]]
	if !ok {
		return nil
	}
	if len(runes) == 1 {
		return pairPhonemes(base)
	}

	consonant := base.consonant
	var vowel string
	switch small := runes[len(runes)-1]; small {
	case 'ャ', 'ュ', 'ョ':
		// Palatalized: キャ -> ky a, シャ -> sh a.
		if consonant != "sh" && consonant != "ch" && consonant != "j" {
			consonant += "y"
		}
		vowel = palatalVowels[small]
	case 'ヮ':
		consonant += "w"
		vowel = "a"
	default:
		// ファ, ティ, ウィ, イェ.
		if consonant == "" {
			if base.vowel == "u" {
				consonant = "w"
			} else {
				consonant = "y"
			}
		}
		vowel = kanaPhonemes[small].vowel
	}
	return pairPhonemes(phonemePair{consonant, vowel})
}

func pairPhonemes(p phonemePair) []string {
	if p.consonant == "" {
		return []string{p.vowel}
	}
	return []string{p.consonant, p.vowel}
}
