package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// store fakes

type fakeSkillStore struct {
	skills map[uint]*model.Skill
}

func newFakeSkillStore(skills ...*model.Skill) *fakeSkillStore {
	s := &fakeSkillStore{skills: make(map[uint]*model.Skill)}
	for _, sk := range skills {
		s.skills[sk.ID] = sk
	}
	return s
}

func (s *fakeSkillStore) FindByID(id uint) (*model.Skill, error) {
	if sk, ok := s.skills[id]; ok {
		return sk, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeSkillStore) Exists(id uint) (bool, error) {
	_, ok := s.skills[id]
	return ok, nil
}

type fakeQuestionStore struct {
	pool      []model.Question
	created   [][]model.Question
	createErr error
	nextID    uint
}

func (s *fakeQuestionStore) FindBySkillAndLevel(skillID uint, level model.SkillLevel) ([]model.Question, error) {
	var out []model.Question
	for _, q := range s.pool {
		if q.SkillID == skillID && q.Level == level {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeQuestionStore) FindByIDs(ids []uint) ([]model.Question, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Question
	for _, q := range s.pool {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeQuestionStore) ExistingTexts(skillID uint, level model.SkillLevel) ([]string, error) {
	var texts []string
	for _, q := range s.pool {
		if q.SkillID == skillID && q.Level == level {
			texts = append(texts, q.Text)
		}
	}
	return texts, nil
}

func (s *fakeQuestionStore) CreateBatch(questions []model.Question) error {
	if s.createErr != nil {
		return s.createErr
	}
	for i := range questions {
		s.nextID++
		questions[i].ID = s.nextID
	}
	s.created = append(s.created, questions)
	s.pool = append(s.pool, questions...)
	return nil
}

type fakeAttemptStore struct {
	attempts      map[string]*model.TestAttempt
	questions     map[string][]model.TestAttemptQuestion
	forceLoseRace bool
	nextRowID     uint
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts:  make(map[string]*model.TestAttempt),
		questions: make(map[string][]model.TestAttemptQuestion),
	}
}

func (s *fakeAttemptStore) CreateWithQuestions(attempt *model.TestAttempt, questions []model.TestAttemptQuestion) error {
	if attempt.ID == "" {
		attempt.ID = model.GenerateUUID()
	}
	stored := *attempt
	s.attempts[attempt.ID] = &stored
	rows := make([]model.TestAttemptQuestion, len(questions))
	for i, q := range questions {
		s.nextRowID++
		q.ID = s.nextRowID
		q.AttemptID = attempt.ID
		rows[i] = q
	}
	s.questions[attempt.ID] = rows
	return nil
}

func (s *fakeAttemptStore) FindByID(id string) (*model.TestAttempt, error) {
	a, ok := s.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAttemptStore) QuestionsByAttempt(attemptID string) ([]model.TestAttemptQuestion, error) {
	rows := s.questions[attemptID]
	out := make([]model.TestAttemptQuestion, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *fakeAttemptStore) FinalizeSubmission(attempt *model.TestAttempt, answered []model.TestAttemptQuestion) (bool, error) {
	stored, ok := s.attempts[attempt.ID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if s.forceLoseRace || stored.Status != model.AttemptInProgress {
		return false, nil
	}
	stored.Status = model.AttemptSubmitted
	stored.Score = attempt.Score
	stored.CorrectCount = attempt.CorrectCount
	stored.TotalCount = attempt.TotalCount
	stored.WeakTopics = attempt.WeakTopics
	stored.ExpiresAt = nil
	stored.SubmittedAt = attempt.SubmittedAt
	s.questions[attempt.ID] = append([]model.TestAttemptQuestion(nil), answered...)
	return true, nil
}

func (s *fakeAttemptStore) ListSubmitted(userID, skillID uint) ([]model.TestAttempt, error) {
	var out []model.TestAttempt
	for _, a := range s.attempts {
		if a.UserID == userID && a.SkillID == skillID && a.Status == model.AttemptSubmitted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(*out[j].SubmittedAt)
	})
	return out, nil
}

func (s *fakeAttemptStore) DeleteExpired(now time.Time) (int64, error) {
	var reaped int64
	for id, a := range s.attempts {
		if a.Expired(now) {
			delete(s.attempts, id)
			delete(s.questions, id)
			reaped++
		}
	}
	return reaped, nil
}

type fakeRegistrationStore struct {
	regs map[string]*model.UserSkillRegistration
}

func regKey(userID, skillID uint) string {
	return fmt.Sprintf("%d:%d", userID, skillID)
}

func newFakeRegistrationStore(regs ...*model.UserSkillRegistration) *fakeRegistrationStore {
	s := &fakeRegistrationStore{regs: make(map[string]*model.UserSkillRegistration)}
	for _, r := range regs {
		s.regs[regKey(r.UserID, r.SkillID)] = r
	}
	return s
}

func (s *fakeRegistrationStore) FindActive(userID, skillID uint) (*model.UserSkillRegistration, error) {
	r, ok := s.regs[regKey(userID, skillID)]
	if !ok || r.Status != model.RegistrationActive {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (s *fakeRegistrationStore) IsRegistered(userID, skillID uint) (bool, error) {
	_, err := s.FindActive(userID, skillID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *fakeRegistrationStore) UpdateLevel(userID, skillID uint, level model.SkillLevel) error {
	if r, ok := s.regs[regKey(userID, skillID)]; ok {
		r.Level = level
	}
	return nil
}

// provider fakes

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type fakeSearchProvider struct {
	links       []string
	failQueries map[string]bool
	queries     []string
}

func (p *fakeSearchProvider) Search(ctx context.Context, query string, limit int) ([]string, error) {
	p.queries = append(p.queries, query)
	if p.failQueries[query] {
		return nil, fmt.Errorf("search backend unavailable")
	}
	if len(p.links) > limit {
		return p.links[:limit], nil
	}
	return p.links, nil
}
