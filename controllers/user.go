package controllers

import (
	"net/http"

	dbpkg "tunematch/db"
	"tunematch/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func CheckUserExists(c *gin.Context, username string) (bool, *models.User) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return false, nil
	}

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return false, nil
	}
	return true, &user
}

// CreateUser cadastra o usuário e cria junto, na mesma transação, o vetor
// de preferências zerado que o acompanha pelo resto da vida da conta.
func CreateUser(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	user := models.User{}
	if err := c.Bind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := user.MissingFields()
	if missing != "" {
		RespondError(c, "missing or invalid field "+missing, http.StatusBadRequest)
		return
	}

	exists, _ := CheckUserExists(c, user.Username)
	if exists {
		RespondError(c, "username already exists", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	user.Password = string(hash)

	tx := db.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	pref := models.Preference{UserID: user.ID}
	if err := tx.Create(&pref).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	RespondCreated(c, gin.H{"user": user})
}
