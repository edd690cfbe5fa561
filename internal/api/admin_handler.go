package api

import (
	"fmt"
	"net/http"
	"strconv"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers godoc
// @Summary List the backend's users
// @Tags Admin
// @Produce json
// @Success 200 {array} domain.User
// @Failure 503 {object} gin.H "Backend unreachable"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// AddUser godoc
// @Summary Add a user on the backend
// @Tags Admin
// @Accept json
// @Produce json
// @Param user body domain.NewUser true "Name, email and password are required"
// @Success 201 {object} domain.User
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/users [post]
func (h *AdminHandler) AddUser(c *gin.Context) {
	var req domain.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.adminService.AddUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser godoc
// @Summary Delete a user on the backend
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} gin.H "User deleted"
// @Failure 404 {object} gin.H "User not found"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListPlans godoc
// @Summary List the backend's plans
// @Tags Admin
// @Produce json
// @Success 200 {array} domain.Plan
// @Router /admin/plans [get]
func (h *AdminHandler) ListPlans(c *gin.Context) {
	plans, err := h.adminService.ListPlans(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

// DeletePlan godoc
// @Summary Delete a plan on the backend
// @Tags Admin
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} gin.H "Plan deleted"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /admin/plans/{id} [delete]
func (h *AdminHandler) DeletePlan(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.adminService.DeletePlan(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

// Stats godoc
// @Summary Users per gender and plans per goal on the backend
// @Tags Admin
// @Produce json
// @Success 200 {object} cache.Stats
// @Failure 503 {object} gin.H "Backend unreachable"
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ListFeedback godoc
// @Summary List the bundled feedback snapshot
// @Tags Admin
// @Produce json
// @Success 200 {array} domain.Feedback
// @Router /admin/feedback [get]
func (h *AdminHandler) ListFeedback(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(h.adminService.Feedback()))
}

// idParam parses the :id path parameter, aborting with 400 when it is not a number.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format.")
		return 0, false
	}
	return id, true
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
