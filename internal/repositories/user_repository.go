package repositories

import (
	"errors"
	"strings"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserVerificationProjection - значения полей users.verification_status / users.is_verified
type UserVerificationProjection struct {
	Status     models.UserVerificationStatus
	IsVerified bool
}

// UserProfileUpdate - частичное обновление профиля (nil = не менять)
type UserProfileUpdate struct {
	Name     *string
	Headline *string
	Phone    *string
	Region   *string
	City     *string
	Location *string
	Bio      *string
	Website  *string
}

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	UpdateProfile(db *gorm.DB, userID string, upd UserProfileUpdate) error
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error

	// SyncVerification - единственное место, где пишутся поля верификации пользователя
	SyncVerification(db *gorm.DB, userID string, p UserVerificationProjection) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateProfile(db *gorm.DB, userID string, upd UserProfileUpdate) error {
	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	set("name", upd.Name)
	set("headline", upd.Headline)
	set("phone", upd.Phone)
	set("region", upd.Region)
	set("city", upd.City)
	set("location", upd.Location)
	set("bio", upd.Bio)
	set("website", upd.Website)

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	return db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (r *UserRepositoryImpl) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}).Error
}

// SyncVerification не проверяет RowsAffected: mysql возвращает 0 для
// неизмененных строк, а повторное применение того же статуса должно быть no-op.
func (r *UserRepositoryImpl) SyncVerification(db *gorm.DB, userID string, p UserVerificationProjection) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"verification_status": p.Status,
		"is_verified":         p.IsVerified,
		"updated_at":          time.Now(),
	}).Error
}
