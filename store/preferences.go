package store

import (
	"sync"

	"tunematch/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// ErrUserNotFound indica que o userId não corresponde a um usuário cadastrado.
var ErrUserNotFound = errors.New("user not found")

// PreferenceStore persiste o vetor de preferências de cada usuário.
// Todo read-modify-write é serializado por usuário (não por processo),
// então merges concorrentes do mesmo usuário nunca perdem delta.
type PreferenceStore struct {
	db    *gorm.DB
	locks sync.Map // userID -> *sync.Mutex
}

func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

func (s *PreferenceStore) userLock(userID int64) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *PreferenceStore) checkUser(userID int64) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return ErrUserNotFound
		}
		return errors.Wrap(err, "load user")
	}
	return nil
}

// Get devolve o vetor atual do usuário. Usuário válido sem linha de
// preferência ainda recebe um vetor zerado, nunca erro.
func (s *PreferenceStore) Get(userID int64) (models.PreferenceVector, error) {
	if err := s.checkUser(userID); err != nil {
		return models.PreferenceVector{}, err
	}

	var pref models.Preference
	if err := s.db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.PreferenceVector{}, nil
		}
		return models.PreferenceVector{}, errors.Wrap(err, "load preference")
	}
	return pref.Vector(), nil
}

// Set substitui o vetor armazenado de forma atômica (upsert em transação).
func (s *PreferenceStore) Set(userID int64, vector models.PreferenceVector) error {
	if err := s.checkUser(userID); err != nil {
		return err
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	return s.upsert(userID, vector)
}

// Merge aplica o delta aditivamente por métrica e devolve o vetor resultante.
// Clamping segue models.PreferenceVector.Merge.
func (s *PreferenceStore) Merge(userID int64, delta map[string]float64) (models.PreferenceVector, error) {
	return s.Apply(userID, func(vector *models.PreferenceVector) {
		vector.Merge(delta)
	})
}

// Apply executa fn sobre o vetor atual do usuário dentro da seção crítica e
// persiste o resultado. Ajustes que dependem do valor armazenado (como o
// puxão de bpm) têm que ser calculados dentro de fn; ler o vetor antes de
// chamar Apply reabre a corrida que o mutex por usuário existe para fechar.
func (s *PreferenceStore) Apply(userID int64, fn func(*models.PreferenceVector)) (models.PreferenceVector, error) {
	if err := s.checkUser(userID); err != nil {
		return models.PreferenceVector{}, err
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var pref models.Preference
	vector := models.PreferenceVector{}
	if err := s.db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return models.PreferenceVector{}, errors.Wrap(err, "load preference")
		}
	} else {
		vector = pref.Vector()
	}

	fn(&vector)

	if err := s.upsert(userID, vector); err != nil {
		return models.PreferenceVector{}, err
	}
	return vector, nil
}

func (s *PreferenceStore) upsert(userID int64, vector models.PreferenceVector) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin tx")
	}

	var pref models.Preference
	err := tx.Where("user_id = ?", userID).First(&pref).Error
	switch {
	case err == nil:
		pref.SetVector(vector)
		if err := tx.Save(&pref).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "update preference")
		}
	case gorm.IsRecordNotFoundError(err):
		pref = models.Preference{UserID: userID}
		pref.SetVector(vector)
		if err := tx.Create(&pref).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "create preference")
		}
	default:
		tx.Rollback()
		return errors.Wrap(err, "load preference")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "commit preference")
	}
	return nil
}
