package controller

import (
	"errors"
	"net/http"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Bank  *service.QuestionBankService
	Tests *service.TestService
}

func NewAssessmentController(bank *service.QuestionBankService, tests *service.TestService) *AssessmentController {
	return &AssessmentController{Bank: bank, Tests: tests}
}

// respondServiceError maps engine errors onto the response envelope.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidLevel):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrSkillNotFound),
		errors.Is(err, util.ErrQuestionPoolEmpty),
		errors.Is(err, util.ErrAttemptNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrNotRegistered):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrAttemptAlreadySubmitted):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptExpired):
		util.Error(ctx, http.StatusGone, err.Error())
	case errors.Is(err, util.ErrUpstreamGeneration):
		util.Error(ctx, http.StatusBadGateway, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type GenerateQuestionsRequest struct {
	Level string `json:"level" binding:"required"`
	Count int    `json:"count"`
}

// @Summary Generate questions for a skill
// @Description Calls the generation provider and persists the deduplicated batch
// @Tags assessment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param skillId path int true "Skill ID"
// @Param body body GenerateQuestionsRequest true "Level and optional count"
// @Success 201 {object} util.Response
// @Router /admin/skills/{skillId}/questions/generate [post]
func (c *AssessmentController) GenerateQuestions(ctx *gin.Context) {
	skillID := util.MustParseUint(ctx.Param("skillId"))
	if skillID == 0 {
		util.BadRequest(ctx, "invalid skill id")
		return
	}

	var req GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Bank.Generate(ctx.Request.Context(), skillID, model.SkillLevel(req.Level), req.Count)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

type StartTestRequest struct {
	SkillID uint   `json:"skillId" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// @Summary Start a test attempt
// @Description Samples a randomized question set; the response never contains correct answers
// @Tags assessment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body StartTestRequest true "Skill and level"
// @Success 201 {object} util.Response
// @Router /tests/start [post]
func (c *AssessmentController) StartTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Tests.StartTest(claims.UserID, req.SkillID, model.SkillLevel(req.Level))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

type SubmitTestRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// @Summary Submit a test attempt
// @Description Scores the attempt once, derives weak topics and links remediation videos
// @Tags assessment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "Attempt ID"
// @Param body body SubmitTestRequest true "Answers keyed by question ID"
// @Success 200 {object} util.Response
// @Router /tests/{attemptId}/submit [post]
func (c *AssessmentController) SubmitTest(ctx *gin.Context) {
	attemptID := ctx.Param("attemptId")
	if attemptID == "" {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	var req SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Tests.Submit(ctx.Request.Context(), attemptID, req.Answers)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary Test history
// @Description Lists the caller's submitted attempts for a skill, newest first
// @Tags assessment
// @Produce json
// @Security ApiKeyAuth
// @Param skillId query int true "Skill ID"
// @Success 200 {object} util.Response
// @Router /tests/history [get]
func (c *AssessmentController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	skillID := util.MustParseUint(ctx.Query("skillId"))
	if skillID == 0 {
		util.BadRequest(ctx, "invalid skill id")
		return
	}

	attempts, err := c.Tests.History(claims.UserID, skillID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// @Summary Attempt detail
// @Description Full post-submission review, correct answers included
// @Tags assessment
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} util.Response
// @Router /tests/attempts/{attemptId} [get]
func (c *AssessmentController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.Tests.GetAttempt(ctx.Param("attemptId"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	// attempts are private to their owner
	if detail.Attempt.UserID != claims.UserID && claims.Role == model.Student {
		util.Error(ctx, http.StatusNotFound, util.ErrAttemptNotFound.Error())
		return
	}

	util.Success(ctx, detail)
}
