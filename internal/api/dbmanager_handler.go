package api

import (
	"fmt"
	"net/http"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
)

type DBManagerHandler struct {
	dbService service.DBManagerService
}

func NewDBManagerHandler(dbService service.DBManagerService) *DBManagerHandler {
	return &DBManagerHandler{dbService: dbService}
}

// Status godoc
// @Summary Which data source the panel uses, and how local data was loaded
// @Tags DBManager
// @Produce json
// @Success 200 {object} gin.H "source and notice"
// @Router /db/status [get]
func (h *DBManagerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"source": h.dbService.Source(), "notice": h.dbService.Notice()})
}

// ListUsers godoc
// @Summary List or search users
// @Tags DBManager
// @Produce json
// @Param q query string false "Case-insensitive match on name or email"
// @Success 200 {array} domain.User
// @Router /db/users [get]
func (h *DBManagerHandler) ListUsers(c *gin.Context) {
	users, err := h.dbService.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// AddUser godoc
// @Summary Add a user
// @Tags DBManager
// @Accept json
// @Produce json
// @Param user body domain.NewUser true "Name, email and password are required"
// @Success 201 {object} domain.User
// @Failure 400 {object} gin.H "Name, email and password are required"
// @Router /db/users [post]
func (h *DBManagerHandler) AddUser(c *gin.Context) {
	var req domain.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.dbService.AddUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags DBManager
// @Param id path int true "User ID"
// @Success 200 {object} gin.H "User deleted"
// @Failure 404 {object} gin.H "User not found"
// @Router /db/users/{id} [delete]
func (h *DBManagerHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.dbService.DeleteUser(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListPlans godoc
// @Summary List or search plans
// @Tags DBManager
// @Produce json
// @Param q query string false "Case-insensitive match on name or goal"
// @Success 200 {array} domain.Plan
// @Router /db/plans [get]
func (h *DBManagerHandler) ListPlans(c *gin.Context) {
	plans, err := h.dbService.SearchPlans(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

// AddPlan godoc
// @Summary Add a plan
// @Description Only the local source supports this.
// @Tags DBManager
// @Accept json
// @Produce json
// @Param plan body domain.NewPlan true "Name and goal are required"
// @Success 201 {object} domain.Plan
// @Failure 501 {object} gin.H "Not supported by the remote source"
// @Router /db/plans [post]
func (h *DBManagerHandler) AddPlan(c *gin.Context) {
	var req domain.NewPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plan, err := h.dbService.AddPlan(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// DeletePlan godoc
// @Summary Delete a plan
// @Tags DBManager
// @Param id path int true "Plan ID"
// @Success 200 {object} gin.H "Plan deleted"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /db/plans/{id} [delete]
func (h *DBManagerHandler) DeletePlan(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.dbService.DeletePlan(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

// Stats godoc
// @Summary Plans per goal and users per gender
// @Tags DBManager
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /db/stats [get]
func (h *DBManagerHandler) Stats(c *gin.Context) {
	st, err := h.dbService.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
