package controllers

import (
	"io"
	"log"
	"net/http"

	"tunematch/recommender"
	"tunematch/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type RecommendRequest struct {
	Preferences *recommender.Request `json:"preferences"`
}

// Recommend gera uma recomendação de música para o usuário autenticado.
// Corpo vazio usa o vetor armazenado; preferências explícitas no corpo são
// validadas e usadas na íntegra. Falhas de gateway respondem sempre a mesma
// mensagem genérica; o tipo específico fica só no log.
func Recommend(svc *recommender.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserLogged(c)
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req RecommendRequest
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := svc.Recommend(c.Request.Context(), user.ID, req.Preferences)
		if err != nil {
			switch {
			case errors.Is(err, recommender.ErrInvalidRequest):
				RespondError(c, err.Error(), http.StatusBadRequest)
			case errors.Is(err, store.ErrUserNotFound):
				RespondError(c, "user not found", http.StatusNotFound)
			default:
				log.Printf("recommend: user=%d error: %v", user.ID, err)
				RespondError(c, "could not generate a recommendation", http.StatusInternalServerError)
			}
			return
		}

		RespondSuccess(c, gin.H{"song": result.Song()})
	}
}
