package tts

import (
	"strings"
	"unicode"
)

// DefaultMaxRunes bounds the length of one sentence handed to the model.
const DefaultMaxRunes = 256

// SplitSentences breaks text at sentence-ending punctuation. Closing quotes
// and brackets stay with the sentence they end. A period between digits
// ("9.9"), directly followed by a letter ("e.g"), or closing a title or
// abbreviation ("Dr. Smith", "U.S. law") does not end a sentence.
// Sentences longer than maxRunes are cut at the last space before the limit.
func SplitSentences(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}

	rs := []rune(text)
	var out []string
	start := 0

	emit := func(end int) {
		if s := strings.TrimSpace(string(rs[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(rs); i++ {
		if i-start+1 > maxRunes {
			cut := lastSpace(rs, start, i)
			if cut <= start {
				cut = i
			}
			emit(cut)
		}

		if !endsSentence(rs, i) {
			continue
		}
		end := i + 1
		for end < len(rs) && isTrailer(rs[end]) {
			end++
		}
		emit(end)
		i = end - 1
	}
	emit(len(rs))
	return out
}

func endsSentence(rs []rune, i int) bool {
	switch rs[i] {
	case '!', '?', ';', '\n', '…', '。', '！', '？', '；':
		return true
	case '.':
		if i+1 == len(rs) {
			return true
		}
		next := rs[i+1]
		if isTrailer(next) {
			return true
		}
		return unicode.IsSpace(next) && !isAbbreviation(rs, i)
	}
	return false
}

// titles never end a sentence: a name follows them.
var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "mt": true, "vs": true,
}

// isAbbreviation reports whether the period at rs[i] closes an abbreviation
// rather than a sentence. Dotted forms ("U.S.", "e.g.", "p.m.") and single
// initials count only when the next word is lowercase.
func isAbbreviation(rs []rune, i int) bool {
	j := i - 1
	for j >= 0 && (unicode.IsLetter(rs[j]) || rs[j] == '.') {
		j--
	}
	word := strings.ToLower(string(rs[j+1 : i]))
	if word == "" {
		return false
	}
	if titles[word] {
		return true
	}
	if !strings.Contains(word, ".") && len([]rune(word)) > 1 {
		return false
	}

	k := i + 1
	for k < len(rs) && unicode.IsSpace(rs[k]) {
		k++
	}
	return k < len(rs) && unicode.IsLower(rs[k])
}

func isTrailer(r rune) bool {
	switch r {
	case '.', '!', '?', '"', '\'', ')', ']', '”', '’', '」', '』':
		return true
	}
	return false
}

// lastSpace returns the index just past the last space in rs[from:to].
func lastSpace(rs []rune, from, to int) int {
	for j := to - 1; j > from; j-- {
		if unicode.IsSpace(rs[j]) {
			return j + 1
		}
	}
	return from
}
