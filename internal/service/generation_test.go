package service

import (
	"strings"
	"testing"

	"skill_assess_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBatch = `[
  {
    "mainTopic": "Concurrency",
    "subTopic": "Channels",
    "topic": "Buffered channels",
    "question": "What happens when you send on a full buffered channel?",
    "options": ["The send blocks", "The send panics", "The value is dropped", "The buffer grows"],
    "correctAnswer": "The send blocks"
  },
  {
    "mainTopic": "Types",
    "subTopic": "Slices",
    "topic": "Slice internals",
    "question": "What does a slice header contain?",
    "options": ["Pointer, length, capacity", "Only a pointer", "A linked list", "A hash table"],
    "correctAnswer": "A"
  }
]`

func TestParseGeneratedQuestions(t *testing.T) {
	items, err := ParseGeneratedQuestions(validBatch)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Channels", items[0].SubTopic)
	assert.Equal(t, "The send blocks", items[0].CorrectAnswer)
	assert.Len(t, items[1].Options, 4)
}

func TestParseGeneratedQuestionsStripsFences(t *testing.T) {
	fenced := "```json\n" + validBatch + "\n```"
	items, err := ParseGeneratedQuestions(fenced)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	bare := "```\n" + validBatch + "\n```"
	items, err = ParseGeneratedQuestions(bare)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestParseGeneratedQuestionsRejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"not json", "here are your questions!", "malformed"},
		{"empty array", `[]`, "empty batch"},
		{"empty question text", `[{"question": "  ", "options": ["a","b","c","d"], "correctAnswer": "a"}]`, "empty question"},
		{"three options", `[{"question": "q", "options": ["a","b","c"], "correctAnswer": "a"}]`, "expected 4 options"},
		{"five options", `[{"question": "q", "options": ["a","b","c","d","e"], "correctAnswer": "a"}]`, "expected 4 options"},
		{"empty answer", `[{"question": "q", "options": ["a","b","c","d"], "correctAnswer": ""}]`, "empty correctAnswer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeneratedQuestions(tt.raw)
			require.Error(t, err)
			var parseErr *GenerationParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	prompt := BuildGenerationPrompt("Go", model.LevelIntermediate, 10)
	assert.Contains(t, prompt, "10 multiple-choice questions")
	assert.Contains(t, prompt, "intermediate")
	assert.Contains(t, prompt, "Go")
	assert.Contains(t, prompt, `"correctAnswer"`)
	assert.True(t, strings.Contains(prompt, "JSON array"))
}
