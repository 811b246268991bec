package controller

import (
	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	Service *service.SkillService
}

func NewSkillController(svc *service.SkillService) *SkillController {
	return &SkillController{Service: svc}
}

// @Summary Create a skill
// @Tags skills
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SkillRequest true "Skill"
// @Success 201 {object} util.Response
// @Router /admin/skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill, err := c.Service.Create(req, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, skill)
}

// @Summary List skills
// @Tags skills
// @Produce json
// @Success 200 {object} util.Response
// @Router /skills [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	skills, err := c.Service.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, skills)
}

// @Summary Skill detail
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} util.Response
// @Router /skills/{id} [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	skill, err := c.Service.Get(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, skill)
}
