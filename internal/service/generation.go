package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"skill_assess_backend/internal/model"
)

// GeneratedItem is the shape every provider must return, one object
// per question.
type GeneratedItem struct {
	MainTopic     string   `json:"mainTopic"`
	SubTopic      string   `json:"subTopic"`
	Topic         string   `json:"topic"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

const optionsPerQuestion = 4

// BuildGenerationPrompt asks for a strict JSON array of question
// objects for one skill and level.
func BuildGenerationPrompt(skillName string, level model.SkillLevel, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions to assess %s-level proficiency in %s.\n\n", count, level, skillName)
	b.WriteString("Respond with ONLY a JSON array. Each element must be an object with exactly these fields:\n")
	b.WriteString(`  "mainTopic": the broad area of the skill being tested` + "\n")
	b.WriteString(`  "subTopic": the narrower area within mainTopic` + "\n")
	b.WriteString(`  "topic": the specific concept the question targets` + "\n")
	b.WriteString(`  "question": the question text` + "\n")
	b.WriteString(`  "options": an array of exactly 4 answer options, plain text without letter prefixes` + "\n")
	b.WriteString(`  "correctAnswer": the full text of the correct option` + "\n\n")
	b.WriteString("Cover a range of topics. Do not repeat questions. Do not wrap the JSON in markdown fences.")
	return b.String()
}

type GenerationParseError struct {
	Reason string
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("malformed generation output: %s", e.Reason)
}

// ParseGeneratedQuestions decodes a provider response into items.
// Models fence JSON in markdown often enough that fences are stripped
// first. Any shape violation fails the whole batch.
func ParseGeneratedQuestions(raw string) ([]GeneratedItem, error) {
	cleaned := stripCodeFences(raw)

	var items []GeneratedItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, &GenerationParseError{Reason: err.Error()}
	}

	if len(items) == 0 {
		return nil, &GenerationParseError{Reason: "empty batch"}
	}

	for i, item := range items {
		if strings.TrimSpace(item.Question) == "" {
			return nil, &GenerationParseError{Reason: fmt.Sprintf("item %d: empty question text", i+1)}
		}
		if len(item.Options) != optionsPerQuestion {
			return nil, &GenerationParseError{Reason: fmt.Sprintf("item %d: expected %d options, got %d", i+1, optionsPerQuestion, len(item.Options))}
		}
		if strings.TrimSpace(item.CorrectAnswer) == "" {
			return nil, &GenerationParseError{Reason: fmt.Sprintf("item %d: empty correctAnswer", i+1)}
		}
	}

	return items, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
