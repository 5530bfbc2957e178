package controllers

import (
	"net/http"
	"time"

	"tunematch/config"
	dbpkg "tunematch/db"
	"tunematch/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login autentica por username+senha e emite um access token.
// Credencial errada responde sempre a mesma mensagem, não importa se o
// usuário existe ou não.
func Login(cfg config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.Bind(&req); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			RespondError(c, "username and password are required", http.StatusBadRequest)
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db not configured in context", http.StatusInternalServerError)
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			RespondError(c, "invalid username or password", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			RespondError(c, "invalid username or password", http.StatusUnauthorized)
			return
		}

		ttl := time.Duration(cfg.Security.TokenTTLMinutes) * time.Minute
		signed, err := SignAccessToken(cfg.Security.JwtSecret, user, ttl)
		if err != nil {
			RespondError(c, "failed to sign token", http.StatusInternalServerError)
			return
		}

		user.Password = ""
		RespondSuccess(c, LoginResponse{Token: signed, User: user})
	}
}
