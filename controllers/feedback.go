package controllers

import (
	"log"
	"net/http"

	"tunematch/recommender"
	"tunematch/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Feedback aplica um swipe (accept/reject) sobre uma candidata e devolve o
// vetor de preferências resultante, para o cliente mostrar a tendência
// aprendida. A identidade vem do token, nunca do corpo.
func Feedback(svc *recommender.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserLogged(c)
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			return
		}

		var ev recommender.SwipeEvent
		if err := c.ShouldBindJSON(&ev); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}

		vector, err := svc.ApplyFeedback(c.Request.Context(), user.ID, ev)
		if err != nil {
			switch {
			case errors.Is(err, recommender.ErrInvalidRequest):
				RespondError(c, err.Error(), http.StatusBadRequest)
			case errors.Is(err, store.ErrUserNotFound):
				RespondError(c, "user not found", http.StatusNotFound)
			default:
				log.Printf("feedback: user=%d error: %v", user.ID, err)
				RespondError(c, "failed to apply feedback", http.StatusInternalServerError)
			}
			return
		}

		RespondSuccess(c, gin.H{"preferences": vector})
	}
}
