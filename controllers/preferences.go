package controllers

import (
	"net/http"

	"tunematch/models"
	"tunematch/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// GetPreferences devolve o vetor atual do usuário autenticado.
func GetPreferences(st *store.PreferenceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserLogged(c)
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			return
		}

		vector, err := st.Get(user.ID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				RespondError(c, "user not found", http.StatusNotFound)
				return
			}
			RespondError(c, "failed to load preferences", http.StatusInternalServerError)
			return
		}
		RespondSuccess(c, gin.H{"preferences": vector})
	}
}

type UpdatePreferencesRequest struct {
	Preferences models.PreferenceVector `json:"preferences"`
}

// UpdatePreferences substitui o vetor inteiro (atualização explícita, fora
// do fluxo de swipe). Scores de gênero/humor precisam estar em [0,1].
func UpdatePreferences(st *store.PreferenceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserLogged(c)
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req UpdatePreferencesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}

		if msg := validateVector(req.Preferences); msg != "" {
			RespondError(c, msg, http.StatusBadRequest)
			return
		}

		if err := st.Set(user.ID, req.Preferences); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				RespondError(c, "user not found", http.StatusNotFound)
				return
			}
			RespondError(c, "failed to save preferences", http.StatusInternalServerError)
			return
		}
		RespondSuccess(c, gin.H{"preferences": req.Preferences})
	}
}

func validateVector(v models.PreferenceVector) string {
	for _, metric := range models.FixedMetrics {
		if s := v.Score(metric); s < 0 || s > 1 {
			return "score for " + metric + " must be within [0,1]"
		}
	}
	for metric, s := range v.Extra {
		if s < 0 || s > 1 {
			return "score for " + metric + " must be within [0,1]"
		}
	}
	if v.Bpm < 0 {
		return "bpm must not be negative"
	}
	return ""
}
