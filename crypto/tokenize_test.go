package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on whitespace",
			text: "Crown Prep Today",
			want: []string{"crown", "prep", "today"},
		},
		{
			name: "strips punctuation from tokens",
			text: "tooth #19, sutured.",
			want: []string{"tooth", "19", "sutured"},
		},
		{
			name: "deduplicates preserving first appearance",
			text: "crown prep crown polish prep",
			want: []string{"crown", "prep", "polish"},
		},
		{
			name: "drops tokens that are pure punctuation",
			text: "pain -- moderate !!",
			want: []string{"pain", "moderate"},
		},
		{
			name: "handles tabs and newlines",
			text: "line one\nline\ttwo",
			want: []string{"line", "one", "two"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "   \t\n  ",
			want: []string{},
		},
		{
			name: "keeps unicode letters",
			text: "Carie détectée",
			want: []string{"carie", "détectée"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}
