package router

import (
	"log"

	"tunematch/config"
	"tunematch/controllers"
	"tunematch/middleware"
	"tunematch/recommender"
	"tunematch/store"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
// Rotas públicas (cadastro/login) + rotas autenticadas atrás do AuthRequired.
func Initialize(r *gin.Engine, cfg config.Configuration, svc *recommender.Service, st *store.PreferenceStore) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/users", Logger(), controllers.CreateUser)
	api.POST("/login", Logger(), controllers.Login(cfg))

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired(cfg.Security.JwtSecret))

	auth.GET("/me", Logger(), controllers.Me)
	auth.GET("/preferences", Logger(), controllers.GetPreferences(st))
	auth.PUT("/preferences", Logger(), controllers.UpdatePreferences(st))
	auth.POST("/recommend", Logger(), controllers.Recommend(svc))
	auth.POST("/feedback", Logger(), controllers.Feedback(svc))

	log.Printf("Routes initialized")
}
