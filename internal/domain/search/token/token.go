package token

import (
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// segmenter loads the IPA morphological dictionary once. Contiguous-script
// runs (no explicit word boundaries) are segmented with it.
var segmenter = sync.OnceValues(func() (*tokenizer.Tokenizer, error) {
	return tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
})

// Tokens normalizes text into searchable units: lower-cased, punctuation
// stripped, whitespace collapsed, contiguous-script runs segmented into
// words. Pure and deterministic.
func Tokens(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !hasContiguousScript(f) {
			out = append(out, f)
			continue
		}
		seg, err := segmenter()
		if err != nil {
			out = append(out, f)
			continue
		}
		for _, w := range seg.Wakati(f) {
			w = strings.TrimSpace(w)
			if w != "" {
				out = append(out, w)
			}
		}
	}
	return out
}

// Normalize returns the canonical form used for prefix and substring
// comparisons: the token sequence joined by single spaces.
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}

// hasContiguousScript reports whether the run contains characters from
// scripts written without word separators.
func hasContiguousScript(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}
