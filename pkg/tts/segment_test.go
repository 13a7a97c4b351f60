package tts

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple",
			text: "Hello there. How are you?",
			want: []string{"Hello there.", "How are you?"},
		},
		{
			name: "decimal kept together",
			text: "Pi is about 3.14 and the version is 9.9. Done!",
			want: []string{"Pi is about 3.14 and the version is 9.9.", "Done!"},
		},
		{
			name: "no terminal punctuation",
			text: "4",
			want: []string{"4"},
		},
		{
			name: "closing quote stays",
			text: `She said "hi." Then left.`,
			want: []string{`She said "hi."`, "Then left."},
		},
		{
			name: "repeated punctuation",
			text: "Really?! Yes...",
			want: []string{"Really?!", "Yes..."},
		},
		{
			name: "newline",
			text: "Line one\nLine two",
			want: []string{"Line one", "Line two"},
		},
		{
			name: "abbreviation without space",
			text: "See example.com for more.",
			want: []string{"See example.com for more."},
		},
		{
			name: "title before a name",
			text: "Dr. Smith is in. Mrs. Jones left.",
			want: []string{"Dr. Smith is in.", "Mrs. Jones left."},
		},
		{
			name: "dotted abbreviation mid sentence",
			text: "U.S. law applies, e.g. here. Done.",
			want: []string{"U.S. law applies, e.g. here.", "Done."},
		},
		{
			name: "dotted abbreviation ending a sentence",
			text: "Meet at 5 p.m. Tomorrow works.",
			want: []string{"Meet at 5 p.m.", "Tomorrow works."},
		},
		{
			name: "ordinary word before period",
			text: "It is done. it continues.",
			want: []string{"It is done.", "it continues."},
		},
		{
			name: "cjk",
			text: "你好。再见！",
			want: []string{"你好。", "再见！"},
		},
		{
			name: "whitespace only",
			text: "   \n ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text, 0)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitSentences_MaxRunes(t *testing.T) {
	text := strings.Repeat("word ", 30) // 150 runes, no punctuation
	got := SplitSentences(text, 32)

	if len(got) < 5 {
		t.Fatalf("expected text to be cut into several pieces, got %d", len(got))
	}
	for _, s := range got {
		if n := utf8.RuneCountInString(s); n > 32 {
			t.Errorf("segment has %d runes, limit 32: %q", n, s)
		}
		if strings.HasPrefix(s, "ord") {
			t.Errorf("cut inside a word: %q", s)
		}
	}
	if joined := strings.Join(got, " "); joined != strings.TrimSpace(text) {
		t.Errorf("pieces do not rejoin to the input:\n%q", joined)
	}
}

func TestSplitSentences_HardCut(t *testing.T) {
	text := strings.Repeat("x", 100)
	got := SplitSentences(text, 40)

	want := []string{strings.Repeat("x", 40), strings.Repeat("x", 40), strings.Repeat("x", 20)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
