package api

import (
	"net/http"
	"strings"

	"fitwise/fitness-client/internal/access"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	memberService service.MemberService,
	adminService service.AdminService,
	dbService service.DBManagerService,
) {
	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(memberService)
	adminHandler := NewAdminHandler(adminService)
	dbHandler := NewDBManagerHandler(dbService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Use(LoopbackOnly(), SessionMiddleware(authService))

	// --- Pages ---
	// Every navigation goes through the gate; a denied one is redirected.
	pages := router.Group("")
	pages.Use(GateMiddleware())
	{
		for _, route := range []access.Route{
			access.RouteDashboard,
			access.RouteAdmin,
			access.RouteDBManager,
			access.RouteLogin,
			access.RouteSignup,
			access.RouteAboutUs,
		} {
			pages.GET(route.Path(), pageHandler(route))
		}
	}
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			abortWithError(c, http.StatusNotFound, "Not found")
			return
		}
		c.Redirect(http.StatusFound, access.RouteUnknown.Path())
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/session", authHandler.Current)
		apiV1.POST("/session/login", authHandler.Login)
		apiV1.POST("/session/logout", authHandler.Logout)
		apiV1.POST("/signup", authHandler.Signup)
		apiV1.GET("/navigate", authHandler.Navigate)
		apiV1.POST("/feedback", memberHandler.SubmitFeedback)

		// --- Member Routes ---
		meGroup := apiV1.Group("/me")
		meGroup.Use(RequireRole(domain.RoleUser))
		{
			meGroup.GET("/goal", memberHandler.GetGoal)
			meGroup.POST("/plans", memberHandler.CreatePlan)
			meGroup.PUT("/profile", memberHandler.UpdateProfile)
			meGroup.POST("/generate-plan", memberHandler.GeneratePlan)
		}

		// --- Admin Routes (remote data) ---
		adminGroup := apiV1.Group("/admin")
		adminGroup.Use(RequireRole(domain.RoleAdmin))
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.POST("/users", adminHandler.AddUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.GET("/plans", adminHandler.ListPlans)
			adminGroup.DELETE("/plans/:id", adminHandler.DeletePlan)
			adminGroup.GET("/stats", adminHandler.Stats)
			adminGroup.GET("/feedback", adminHandler.ListFeedback)
		}

		// --- DB Manager Routes (configured source) ---
		dbGroup := apiV1.Group("/db")
		dbGroup.Use(RequireRole(domain.RoleDBManager))
		{
			dbGroup.GET("/status", dbHandler.Status)
			dbGroup.GET("/users", dbHandler.ListUsers)
			dbGroup.POST("/users", dbHandler.AddUser)
			dbGroup.DELETE("/users/:id", dbHandler.DeleteUser)
			dbGroup.GET("/plans", dbHandler.ListPlans)
			dbGroup.POST("/plans", dbHandler.AddPlan)
			dbGroup.DELETE("/plans/:id", dbHandler.DeletePlan)
			dbGroup.GET("/stats", dbHandler.Stats)
		}
	}
}

// pageHandler answers an admitted navigation with the view model the front end renders.
func pageHandler(route access.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := getSessionFromContext(c)
		c.JSON(http.StatusOK, gin.H{"page": route, "session": sess})
	}
}
