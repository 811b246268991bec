package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"time"

	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/util"
	"skill_assess_backend/pkg/logger"
	"skill_assess_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestService owns the attempt lifecycle: sampling a test from the
// question pool, scoring a submission, escalating the registration
// level, and linking remediation videos to weak topics.
type TestService struct {
	Skills        SkillStore
	Questions     QuestionStore
	Attempts      AttemptStore
	Registrations RegistrationStore
	Recommender   *RecommendationService
	Config        config.AssessmentConfig
}

func NewTestService(skills SkillStore, questions QuestionStore, attempts AttemptStore, regs RegistrationStore, rec *RecommendationService, cfg config.AssessmentConfig) *TestService {
	return &TestService{
		Skills:        skills,
		Questions:     questions,
		Attempts:      attempts,
		Registrations: regs,
		Recommender:   rec,
		Config:        cfg,
	}
}

// SampledQuestion is the client-facing question shape. It has no
// correct-answer field: answers must never leave the server before
// submission.
type SampledQuestion struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type StartTestResult struct {
	AttemptID string            `json:"attemptId"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Questions []SampledQuestion `json:"questions"`
}

// StartTest draws a random bounded sample from the (skill, level)
// pool for a registered user and opens an unsubmitted attempt with a
// fixed TTL.
func (s *TestService) StartTest(userID, skillID uint, level model.SkillLevel) (*StartTestResult, error) {
	if !level.Valid() {
		return nil, util.ErrInvalidLevel
	}

	registered, err := s.Registrations.IsRegistered(userID, skillID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, util.ErrNotRegistered
	}

	pool, err := s.Questions.FindBySkillAndLevel(skillID, level)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrQuestionPoolEmpty
	}

	sample := samplePool(pool, s.Config.QuestionsPerTest)

	expires := time.Now().Add(s.Config.AttemptTTL)
	attempt := &model.TestAttempt{
		UserID:    userID,
		SkillID:   skillID,
		Level:     level,
		Status:    model.AttemptInProgress,
		ExpiresAt: &expires,
	}

	attemptQuestions := make([]model.TestAttemptQuestion, len(sample))
	sampled := make([]SampledQuestion, len(sample))
	for i, q := range sample {
		attemptQuestions[i] = model.TestAttemptQuestion{
			QuestionID: q.ID,
			Position:   i,
		}
		options, err := q.OptionList()
		if err != nil {
			return nil, err
		}
		sampled[i] = SampledQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: options,
		}
	}

	if err := s.Attempts.CreateWithQuestions(attempt, attemptQuestions); err != nil {
		return nil, err
	}

	return &StartTestResult{
		AttemptID: attempt.ID,
		ExpiresAt: expires,
		Questions: sampled,
	}, nil
}

// samplePool draws min(n, len(pool)) questions uniformly without
// replacement. A pool smaller than n is returned whole.
func samplePool(pool []model.Question, n int) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

type SubmitResult struct {
	AttemptID         string        `json:"attemptId"`
	Score             int           `json:"score"`
	CorrectCount      int           `json:"correctCount"`
	TotalQuestions    int           `json:"totalQuestions"`
	WeakTopics        []string      `json:"weakTopics"`
	RecommendedVideos []TopicVideos `json:"recommendedVideos"`
	LevelAdvanced     bool          `json:"levelAdvanced"`
	NewLevel          string        `json:"newLevel,omitempty"`
}

// Submit scores an attempt exactly once. The submitted-flag
// transition is a compare-and-set in the store, so a double submit
// loses the race and surfaces as a conflict.
func (s *TestService) Submit(ctx context.Context, attemptID string, answers map[uint]string) (*SubmitResult, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptSubmitted {
		return nil, util.ErrAttemptAlreadySubmitted
	}
	if attempt.Expired(time.Now()) {
		return nil, util.ErrAttemptExpired
	}

	attemptQuestions, err := s.Attempts.QuestionsByAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(attemptQuestions))
	for i, aq := range attemptQuestions {
		ids[i] = aq.QuestionID
	}
	questions, err := s.Questions.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	correct := 0
	var weakTopics []string
	weakSeen := make(map[string]bool)

	for i := range attemptQuestions {
		aq := &attemptQuestions[i]
		q, ok := byID[aq.QuestionID]
		if !ok {
			// question deleted from the bank after sampling; counts
			// against the user like an unanswered one
			continue
		}

		submitted, answered := answers[aq.QuestionID]
		aq.SubmittedAnswer = submitted
		aq.IsCorrect = answered && AnswersMatch(submitted, q.CorrectAnswer)

		if aq.IsCorrect {
			correct++
		} else if topic := q.WeakTopic(); topic != "" && !weakSeen[topic] {
			weakSeen[topic] = true
			weakTopics = append(weakTopics, topic)
		}
	}

	total := len(attemptQuestions)
	score := scorePercent(correct, total)

	now := time.Now()
	weakJSON, err := json.Marshal(weakTopics)
	if err != nil {
		return nil, err
	}

	attempt.Score = score
	attempt.CorrectCount = correct
	attempt.TotalCount = total
	attempt.WeakTopics = weakJSON
	attempt.SubmittedAt = &now

	claimed, err := s.Attempts.FinalizeSubmission(attempt, attemptQuestions)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, util.ErrAttemptAlreadySubmitted
	}

	monitoring.AttemptsSubmitted.Inc()

	advanced, newLevel, err := s.maybeAdvance(attempt.UserID, attempt.SkillID, score)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		AttemptID:      attempt.ID,
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: total,
		WeakTopics:     weakTopics,
		LevelAdvanced:  advanced,
	}
	if result.WeakTopics == nil {
		result.WeakTopics = []string{}
	}
	if advanced {
		result.NewLevel = string(newLevel)
	}

	result.RecommendedVideos = s.recommendVideos(ctx, attempt.SkillID, weakTopics)

	return result, nil
}

func (s *TestService) recommendVideos(ctx context.Context, skillID uint, weakTopics []string) []TopicVideos {
	if s.Recommender == nil || len(weakTopics) == 0 {
		return []TopicVideos{}
	}
	skill, err := s.Skills.FindByID(skillID)
	if err != nil {
		logger.Log.Warn("skill lookup for recommendations failed", zap.Uint("skillId", skillID), zap.Error(err))
		return []TopicVideos{}
	}
	return s.Recommender.LinkVideos(ctx, skill.Name, weakTopics)
}

// scorePercent rounds half up: 2/3 -> 67, 7/10 -> 70.
func scorePercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// maybeAdvance moves the registration one level up when the score
// clears the pass threshold. Advanced is terminal; a miss is a no-op,
// not an error.
func (s *TestService) maybeAdvance(userID, skillID uint, score int) (bool, model.SkillLevel, error) {
	if score < s.Config.PassScore {
		return false, "", nil
	}

	reg, err := s.Registrations.FindActive(userID, skillID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	if reg.Level == model.LevelAdvanced {
		return false, "", nil
	}

	next := reg.Level.Next()
	if err := s.Registrations.UpdateLevel(userID, skillID, next); err != nil {
		return false, "", err
	}

	logger.Log.Info("registration level advanced",
		zap.Uint("userId", userID),
		zap.Uint("skillId", skillID),
		zap.String("from", string(reg.Level)),
		zap.String("to", string(next)))

	return true, next, nil
}

// History lists a user's submitted attempts for a skill, newest
// first. Unsubmitted attempts are internal state and never appear.
func (s *TestService) History(userID, skillID uint) ([]model.TestAttempt, error) {
	attempts, err := s.Attempts.ListSubmitted(userID, skillID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.TestAttempt{}
	}
	return attempts, nil
}

// ReviewQuestion is the post-submission detail row, correct answer
// included.
type ReviewQuestion struct {
	ID              uint     `json:"id"`
	Text            string   `json:"text"`
	Options         []string `json:"options"`
	CorrectAnswer   string   `json:"correctAnswer"`
	SubmittedAnswer string   `json:"submittedAnswer"`
	IsCorrect       bool     `json:"isCorrect"`
}

type AttemptDetail struct {
	Attempt   *model.TestAttempt `json:"attempt"`
	Questions []ReviewQuestion   `json:"questions"`
}

// GetAttempt returns the full attempt for review. Only submitted
// attempts are visible; exposing an open attempt would leak answers.
func (s *TestService) GetAttempt(attemptID string) (*AttemptDetail, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptSubmitted {
		return nil, util.ErrAttemptNotFound
	}

	attemptQuestions, err := s.Attempts.QuestionsByAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(attemptQuestions))
	for i, aq := range attemptQuestions {
		ids[i] = aq.QuestionID
	}
	questions, err := s.Questions.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	review := make([]ReviewQuestion, 0, len(attemptQuestions))
	for _, aq := range attemptQuestions {
		q, ok := byID[aq.QuestionID]
		if !ok {
			continue
		}
		options, err := q.OptionList()
		if err != nil {
			return nil, err
		}
		review = append(review, ReviewQuestion{
			ID:              q.ID,
			Text:            q.Text,
			Options:         options,
			CorrectAnswer:   q.CorrectAnswer,
			SubmittedAnswer: aq.SubmittedAnswer,
			IsCorrect:       aq.IsCorrect,
		})
	}

	return &AttemptDetail{Attempt: attempt, Questions: review}, nil
}

// ReapExpired hard-checks attempt TTLs; it backs the periodic
// background sweep so expiry does not depend on store-level TTL
// indexes.
func (s *TestService) ReapExpired() error {
	reaped, err := s.Attempts.DeleteExpired(time.Now())
	if err != nil {
		return err
	}
	if reaped > 0 {
		logger.Log.Info("expired attempts reaped", zap.Int64("count", reaped))
	}
	return nil
}
