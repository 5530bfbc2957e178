package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tunematch/db"
	"tunematch/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// authClaims é o mínimo que um token de acesso carrega:
//
//	{ "sub": "<userId>", "username": "...", "iat": ..., "exp": ... }
type authClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const ctxUserKey = "auth_user"

// Mensagens propositalmente genéricas: expirado, assinatura ruim e payload
// malformado respondem igual para não vazar detalhe de verificação.
const msgMissingCredential = "missing credentials"
const msgInvalidCredential = "invalid or expired credentials"

// AuthRequired valida o Bearer token e carrega o usuário do banco para o
// contexto. O secret é injetado na construção, nunca lido de ambiente na
// hora da verificação. Sem credencial válida, nada abaixo do gate roda.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, msgMissingCredential, http.StatusUnauthorized)
			c.Abort()
			return
		}
		token := strings.TrimSpace(h[len("Bearer "):])

		claims := authClaims{}
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
		if err != nil || !parsed.Valid {
			RespondError(c, msgInvalidCredential, http.StatusForbidden)
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || userID <= 0 {
			RespondError(c, msgInvalidCredential, http.StatusForbidden)
			c.Abort()
			return
		}

		database := db.DBInstance(c)
		if database == nil {
			RespondError(c, "db not configured in context", http.StatusInternalServerError)
			c.Abort()
			return
		}
		var user models.User
		if err := database.First(&user, userID).Error; err != nil {
			RespondError(c, msgInvalidCredential, http.StatusForbidden)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// SignAccessToken emite um HS256 JWT para o usuário.
func SignAccessToken(secret string, user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}
