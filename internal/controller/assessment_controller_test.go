package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"
	"skill_assess_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// minimal in-memory stores

type memSkillStore struct{ skill *model.Skill }

func (s *memSkillStore) FindByID(id uint) (*model.Skill, error) {
	if s.skill != nil && s.skill.ID == id {
		return s.skill, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memSkillStore) Exists(id uint) (bool, error) {
	return s.skill != nil && s.skill.ID == id, nil
}

type memQuestionStore struct{ pool []model.Question }

func (s *memQuestionStore) FindBySkillAndLevel(skillID uint, level model.SkillLevel) ([]model.Question, error) {
	var out []model.Question
	for _, q := range s.pool {
		if q.SkillID == skillID && q.Level == level {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memQuestionStore) FindByIDs(ids []uint) ([]model.Question, error) {
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

func (s *memQuestionStore) ExistingTexts(skillID uint, level model.SkillLevel) ([]string, error) {
	var texts []string
	for _, q := range s.pool {
		if q.SkillID == skillID && q.Level == level {
			texts = append(texts, q.Text)
		}
	}
	return texts, nil
}

func (s *memQuestionStore) CreateBatch(questions []model.Question) error {
	s.pool = append(s.pool, questions...)
	return nil
}

type memAttemptStore struct {
	attempts  map[string]*model.TestAttempt
	questions map[string][]model.TestAttemptQuestion
}

func newMemAttemptStore() *memAttemptStore {
	return &memAttemptStore{
		attempts:  make(map[string]*model.TestAttempt),
		questions: make(map[string][]model.TestAttemptQuestion),
	}
}

func (s *memAttemptStore) CreateWithQuestions(attempt *model.TestAttempt, questions []model.TestAttemptQuestion) error {
	if attempt.ID == "" {
		attempt.ID = model.GenerateUUID()
	}
	stored := *attempt
	s.attempts[attempt.ID] = &stored
	rows := make([]model.TestAttemptQuestion, len(questions))
	for i, q := range questions {
		q.AttemptID = attempt.ID
		rows[i] = q
	}
	s.questions[attempt.ID] = rows
	return nil
}

func (s *memAttemptStore) FindByID(id string) (*model.TestAttempt, error) {
	a, ok := s.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memAttemptStore) QuestionsByAttempt(attemptID string) ([]model.TestAttemptQuestion, error) {
	return s.questions[attemptID], nil
}

func (s *memAttemptStore) FinalizeSubmission(attempt *model.TestAttempt, answered []model.TestAttemptQuestion) (bool, error) {
	stored, ok := s.attempts[attempt.ID]
	if !ok || stored.Status != model.AttemptInProgress {
		return false, nil
	}
	stored.Status = model.AttemptSubmitted
	stored.Score = attempt.Score
	stored.CorrectCount = attempt.CorrectCount
	stored.TotalCount = attempt.TotalCount
	stored.WeakTopics = attempt.WeakTopics
	stored.ExpiresAt = nil
	stored.SubmittedAt = attempt.SubmittedAt
	s.questions[attempt.ID] = answered
	return true, nil
}

func (s *memAttemptStore) ListSubmitted(userID, skillID uint) ([]model.TestAttempt, error) {
	var out []model.TestAttempt
	for _, a := range s.attempts {
		if a.UserID == userID && a.SkillID == skillID && a.Status == model.AttemptSubmitted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memAttemptStore) DeleteExpired(now time.Time) (int64, error) {
	return 0, nil
}

type memRegistrationStore struct{ reg *model.UserSkillRegistration }

func (s *memRegistrationStore) FindActive(userID, skillID uint) (*model.UserSkillRegistration, error) {
	if s.reg != nil && s.reg.UserID == userID && s.reg.SkillID == skillID {
		return s.reg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memRegistrationStore) IsRegistered(userID, skillID uint) (bool, error) {
	_, err := s.FindActive(userID, skillID)
	return err == nil, nil
}

func (s *memRegistrationStore) UpdateLevel(userID, skillID uint, level model.SkillLevel) error {
	if s.reg != nil {
		s.reg.Level = level
	}
	return nil
}

// harness

type apiFixture struct {
	router *gin.Engine
	store  *memAttemptStore
}

func newAPIFixture(t *testing.T, poolSize int) *apiFixture {
	t.Helper()

	questions := &memQuestionStore{}
	for i := 1; i <= poolSize; i++ {
		questions.pool = append(questions.pool, model.Question{
			BaseModel:     model.BaseModel{ID: uint(i)},
			SkillID:       1,
			Level:         model.LevelBeginner,
			Topic:         fmt.Sprintf("topic-%d", i),
			Text:          fmt.Sprintf("question %d", i),
			Options:       json.RawMessage(`["right","wrong 1","wrong 2","wrong 3"]`),
			CorrectAnswer: "right",
		})
	}

	attempts := newMemAttemptStore()
	tests := service.NewTestService(
		&memSkillStore{skill: &model.Skill{BaseModel: model.BaseModel{ID: 1}, Name: "Go"}},
		questions,
		attempts,
		&memRegistrationStore{reg: &model.UserSkillRegistration{
			UserID:  7,
			SkillID: 1,
			Status:  model.RegistrationActive,
			Level:   model.LevelBeginner,
		}},
		nil,
		config.AssessmentConfig{QuestionsPerTest: 25, PassScore: 75, AttemptTTL: time.Hour},
	)

	ctrl := NewAssessmentController(nil, tests)

	router := gin.New()
	authed := router.Group("/api", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 7, Role: model.Student, Email: "student@example.com"})
	})
	authed.POST("/tests/start", ctrl.StartTest)
	authed.POST("/tests/:attemptId/submit", ctrl.SubmitTest)
	authed.GET("/tests/history", ctrl.GetHistory)
	authed.GET("/tests/attempts/:attemptId", ctrl.GetAttempt)

	return &apiFixture{router: router, store: attempts}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}



func TestStartTestEndpoint(t *testing.T) {
	f := newAPIFixture(t, 5)

	rec := f.do(t, http.MethodPost, "/api/tests/start", gin.H{"skillId": 1, "level": "beginner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correctAnswer")

	env := decodeEnvelope(t, rec)
	var started service.StartTestResult
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.NotEmpty(t, started.AttemptID)
	assert.Len(t, started.Questions, 5)
}

func TestStartTestEndpointUnregisteredSkill(t *testing.T) {
	f := newAPIFixture(t, 5)

	rec := f.do(t, http.MethodPost, "/api/tests/start", gin.H{"skillId": 2, "level": "beginner"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStartTestEndpointInvalidLevel(t *testing.T) {
	f := newAPIFixture(t, 5)

	rec := f.do(t, http.MethodPost, "/api/tests/start", gin.H{"skillId": 1, "level": "wizard"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitEndpointScoresOnce(t *testing.T) {
	f := newAPIFixture(t, 4)

	rec := f.do(t, http.MethodPost, "/api/tests/start", gin.H{"skillId": 1, "level": "beginner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	var started service.StartTestResult
	require.NoError(t, json.Unmarshal(env.Data, &started))

	answers := make(map[string]string)
	for _, q := range started.Questions {
		answers[fmt.Sprint(q.ID)] = "right"
	}
	submitPath := "/api/tests/" + started.AttemptID + "/submit"

	rec = f.do(t, http.MethodPost, submitPath, gin.H{"answers": answers})
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	var result service.SubmitResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.LevelAdvanced)

	// second submission conflicts
	rec = f.do(t, http.MethodPost, submitPath, gin.H{"answers": answers})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitEndpointUnknownAttempt(t *testing.T) {
	f := newAPIFixture(t, 4)

	rec := f.do(t, http.MethodPost, "/api/tests/does-not-exist/submit", gin.H{"answers": map[string]string{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	f := newAPIFixture(t, 3)

	rec := f.do(t, http.MethodPost, "/api/tests/start", gin.H{"skillId": 1, "level": "beginner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	var started service.StartTestResult
	require.NoError(t, json.Unmarshal(env.Data, &started))

	rec = f.do(t, http.MethodPost, "/api/tests/"+started.AttemptID+"/submit", gin.H{"answers": map[string]string{}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/tests/history?skillId=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	var attempts []model.TestAttempt
	require.NoError(t, json.Unmarshal(env.Data, &attempts))
	require.Len(t, attempts, 1)
	assert.Equal(t, model.AttemptSubmitted, attempts[0].Status)
}

func TestGetAttemptEndpointHidesForeignAttempts(t *testing.T) {
	f := newAPIFixture(t, 3)

	// a submitted attempt belonging to a different user
	other := &model.TestAttempt{
		UserID:  99,
		SkillID: 1,
		Level:   model.LevelBeginner,
		Status:  model.AttemptSubmitted,
	}
	now := time.Now()
	other.SubmittedAt = &now
	require.NoError(t, f.store.CreateWithQuestions(other, nil))

	rec := f.do(t, http.MethodGet, "/api/tests/attempts/"+other.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAttemptEndpointUnsubmittedIsNotFound(t *testing.T) {
	f := newAPIFixture(t, 3)

	rec := f.do(t, http.MethodPost, "/api/tests/start", gin.H{"skillId": 1, "level": "beginner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	var started service.StartTestResult
	require.NoError(t, json.Unmarshal(env.Data, &started))

	rec = f.do(t, http.MethodGet, "/api/tests/attempts/"+started.AttemptID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
