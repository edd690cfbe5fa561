package api

import (
	"fmt"
	"net/http"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
	PlanName string `json:"plan_name" binding:"required"`
}

type UpdateProfileRequest struct {
	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
	Goal     string  `json:"goal"`
}

// --- Handler Methods for Members ---

// GetGoal godoc
// @Summary Get my latest goal
// @Description Falls back to "general fitness" when the backend has none or cannot be reached.
// @Tags Member
// @Produce json
// @Success 200 {object} gin.H "goal"
// @Router /me/goal [get]
func (h *MemberHandler) GetGoal(c *gin.Context) {
	goal, err := h.memberService.Goal(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// CreatePlan godoc
// @Summary Save a named plan for me
// @Tags Member
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan type and name"
// @Success 201 {object} gin.H "Plan saved"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /me/plans [post]
func (h *MemberHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := h.memberService.CreatePlan(c.Request.Context(), req.PlanType, req.PlanName); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Plan saved"})
}

// UpdateProfile godoc
// @Summary Update my height, weight and goal
// @Description The session identity is rewritten only after the backend accepts the update.
// @Tags Member
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "New metrics"
// @Success 200 {object} SessionResponse "Updated session"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /me/profile [put]
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	sess, err := h.memberService.UpdateProfile(c.Request.Context(), req.HeightCM, req.WeightKG, req.Goal)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: sess})
}

// GeneratePlan godoc
// @Summary Generate a personal plan
// @Description Relays the request to the backend generator and returns its plan unchanged.
// @Tags Member
// @Accept json
// @Produce json
// @Param request body domain.PlanRequest true "Generator input"
// @Success 200 {object} gin.H "status and plan"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 502 {object} gin.H "Generator failed or answered without a plan"
// @Router /me/generate-plan [post]
func (h *MemberHandler) GeneratePlan(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plan, err := h.memberService.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "plan": plan})
}

// SubmitFeedback godoc
// @Summary Send feedback
// @Description Open to every visitor of the about page.
// @Tags Public
// @Accept json
// @Produce json
// @Param feedback body domain.FeedbackRequest true "Name, email and message"
// @Success 201 {object} gin.H "Feedback sent"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /feedback [post]
func (h *MemberHandler) SubmitFeedback(c *gin.Context) {
	var req domain.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := h.memberService.SubmitFeedback(c.Request.Context(), req); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success"})
}
