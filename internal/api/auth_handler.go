package api

import (
	"fmt"
	"net/http"

	"fitwise/fitness-client/internal/access"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Role     domain.Role `json:"role" binding:"omitempty,oneof=user admin db_manager"` // Defaults to user
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
}

type SessionResponse struct {
	Session  domain.Session `json:"session"`
	Redirect string         `json:"redirect,omitempty"`
}

// --- Handler Methods ---

// Signup godoc
// @Summary Register a new member
// @Description Creates the account on the backend. The visitor still has to log in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body domain.SignupRequest true "Signup details"
// @Success 201 {object} gin.H "Account created"
// @Failure 400 {object} gin.H "Invalid input (validation error or rejected by the backend)"
// @Failure 503 {object} gin.H "Backend unreachable"
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := h.authService.Signup(c.Request.Context(), req); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful", "redirect": access.RouteLogin.Path()})
}

// Login godoc
// @Summary Log in as a member, admin or DB manager
// @Description Replaces the current session. On failure the current session is unchanged.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 503 {object} gin.H "Backend unreachable"
// @Router /session/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}

	sess, err := h.authService.Login(c.Request.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: sess, Redirect: access.Landing(sess.Role).Path()})
}

// Logout godoc
// @Summary End the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse "Logged out"
// @Failure 500 {object} gin.H "Durable session could not be cleared"
// @Router /session/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: h.authService.Current(), Redirect: access.RouteLogin.Path()})
}

// Current godoc
// @Summary Get the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse "Current session, anonymous when nobody is logged in"
// @Router /session [get]
func (h *AuthHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{Session: h.authService.Current()})
}

// Navigate godoc
// @Summary Ask the gate whether the current session may open a page
// @Tags Auth
// @Produce json
// @Param path query string true "Page path, e.g. /admin"
// @Success 200 {object} gin.H "allowed, and the redirect target when denied"
// @Router /navigate [get]
func (h *AuthHandler) Navigate(c *gin.Context) {
	route := access.RouteFromPath(c.Query("path"))
	decision := access.CanEnter(route, h.authService.Current())
	resp := gin.H{"allowed": decision.Allowed}
	if !decision.Allowed {
		resp["redirect"] = decision.Redirect.Path()
	}
	c.JSON(http.StatusOK, resp)
}
