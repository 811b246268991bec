package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/util"
	"skill_assess_backend/pkg/logger"
	"skill_assess_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultGenerateCount = 10

// QuestionBankService builds the deduplicated question pool for each
// (skill, level) pair from generative-AI output.
type QuestionBankService struct {
	Skills    SkillStore
	Questions QuestionStore
	Generator QuestionGenerator
	Archive   *StorageService
}

func NewQuestionBankService(skills SkillStore, questions QuestionStore, gen QuestionGenerator, archive *StorageService) *QuestionBankService {
	return &QuestionBankService{
		Skills:    skills,
		Questions: questions,
		Generator: gen,
		Archive:   archive,
	}
}

type GenerateResult struct {
	TotalGenerated int              `json:"totalGenerated"`
	TotalAdded     int              `json:"totalAdded"`
	Saved          []model.Question `json:"questions"`
}

// Generate asks the provider for a batch, canonicalizes and dedups
// it, and persists the new subset. A batch that cannot be parsed or
// normalized fails as a whole; nothing is written.
func (s *QuestionBankService) Generate(ctx context.Context, skillID uint, level model.SkillLevel, count int) (*GenerateResult, error) {
	if !level.Valid() {
		return nil, util.ErrInvalidLevel
	}
	if count <= 0 {
		count = defaultGenerateCount
	}

	skill, err := s.Skills.FindByID(skillID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	}
	if err != nil {
		return nil, err
	}

	prompt := BuildGenerationPrompt(skill.Name, level, count)
	raw, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstreamGeneration, err)
	}

	if s.Archive != nil {
		if _, err := s.Archive.ArchiveGenerationPayload(ctx, skillID, level, raw); err != nil {
			logger.Log.Warn("failed to archive generation payload", zap.Error(err))
		}
	}

	items, err := ParseGeneratedQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstreamGeneration, err)
	}

	candidates, err := canonicalizeBatch(skillID, level, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstreamGeneration, err)
	}

	existing, err := s.Questions.ExistingTexts(skillID, level)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.TrimSpace(t)] = true
	}

	var fresh []model.Question
	for _, q := range candidates {
		key := strings.TrimSpace(q.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		fresh = append(fresh, q)
	}

	if len(fresh) > 0 {
		if err := s.Questions.CreateBatch(fresh); err != nil {
			return nil, err
		}
	}

	monitoring.QuestionsGenerated.WithLabelValues(skill.Name, string(level)).Add(float64(len(fresh)))
	logger.Log.Info("question batch generated",
		zap.Uint("skillId", skillID),
		zap.String("level", string(level)),
		zap.Int("generated", len(items)),
		zap.Int("added", len(fresh)))

	if fresh == nil {
		fresh = []model.Question{}
	}
	return &GenerateResult{
		TotalGenerated: len(items),
		TotalAdded:     len(fresh),
		Saved:          fresh,
	}, nil
}

// canonicalizeBatch normalizes options and resolves each item's
// correct answer to option text. One unresolvable item rejects the
// batch so garbled output is never partially persisted.
func canonicalizeBatch(skillID uint, level model.SkillLevel, items []GeneratedItem) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(items))
	for i, item := range items {
		options := make([]string, len(item.Options))
		for j, opt := range item.Options {
			options[j] = StripEnumerant(opt)
		}

		answer, ok := ResolveCorrectAnswer(item.CorrectAnswer, options)
		if !ok {
			return nil, fmt.Errorf("item %d: correctAnswer %q does not match any option", i+1, item.CorrectAnswer)
		}

		optionsJSON, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}

		questions = append(questions, model.Question{
			SkillID:       skillID,
			Level:         level,
			MainTopic:     strings.TrimSpace(item.MainTopic),
			SubTopic:      strings.TrimSpace(item.SubTopic),
			Topic:         strings.TrimSpace(item.Topic),
			Text:          strings.TrimSpace(item.Question),
			Options:       optionsJSON,
			CorrectAnswer: answer,
		})
	}
	return questions, nil
}
