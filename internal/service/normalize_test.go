package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripEnumerant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dot prefix", "A. Paris", "Paris"},
		{"lowercase paren", "a) Paris", "Paris"},
		{"wrapped paren", "(C) goroutine", "goroutine"},
		{"colon prefix", "B: a slice header", "a slice header"},
		{"leading whitespace", "  D. channels", "channels"},
		{"no prefix", "Paris", "Paris"},
		{"word starting with letter-dot pattern is kept without space", "A.B testing", "A.B testing"},
		{"single word untouched", "Amsterdam", "Amsterdam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripEnumerant(tt.input))
		})
	}
}

func TestResolveCorrectAnswer(t *testing.T) {
	options := []string{"Paris", "London", "Berlin", "Madrid"}

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare letter", "B", "London", true},
		{"lowercase letter with dot", "c.", "Berlin", true},
		{"parenthesized letter", "(D)", "Madrid", true},
		{"letter out of range", "F", "", false},
		{"full text", "Paris", "Paris", true},
		{"full text different case", "berlin", "Berlin", true},
		{"enumerant plus text", "A. Paris", "Paris", true},
		{"text matching no option", "Rome", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveCorrectAnswer(tt.raw, options)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswersMatch(t *testing.T) {
	assert.True(t, AnswersMatch("Paris", "paris"))
	assert.True(t, AnswersMatch("  Paris  ", "Paris"))
	assert.False(t, AnswersMatch("Paris", "London"))
	assert.False(t, AnswersMatch("", "Paris"))
	assert.True(t, AnswersMatch("", "  "))
}
