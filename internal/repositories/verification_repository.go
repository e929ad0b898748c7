package repositories

import (
	"errors"
	"strings"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrVerificationNotFound = errors.New("verification not found")

// VerificationListCriteria - фильтр админского списка заявок
type VerificationListCriteria struct {
	Status   models.VerificationStatus // пустая строка - без фильтра
	Search   string                    // подстрока имени или email работодателя
	Page     int                       // с 1
	PageSize int
}

type VerificationRepository interface {
	FindByID(db *gorm.DB, id string) (*models.EmployerVerification, error)
	FindByIDWithEmployer(db *gorm.DB, id string) (*models.EmployerVerification, error)
	FindByEmployer(db *gorm.DB, employerID string) (*models.EmployerVerification, error)

	// Upsert создает или полностью перезаписывает заявку работодателя (уникальна по employer_id)
	Upsert(db *gorm.DB, v *models.EmployerVerification) error
	UpdateDecision(db *gorm.DB, id string, status models.VerificationStatus, note string) error

	List(db *gorm.DB, criteria VerificationListCriteria) ([]models.EmployerVerification, int64, error)
}

type VerificationRepositoryImpl struct{}

func NewVerificationRepository() VerificationRepository {
	return &VerificationRepositoryImpl{}
}

func (r *VerificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.EmployerVerification, error) {
	var v models.EmployerVerification
	if err := db.First(&v, "id = ?", id).Error; err != nil {
		return nil, translateVerificationError(err)
	}
	return &v, nil
}

func (r *VerificationRepositoryImpl) FindByIDWithEmployer(db *gorm.DB, id string) (*models.EmployerVerification, error) {
	var v models.EmployerVerification
	if err := db.Preload("Employer").First(&v, "id = ?", id).Error; err != nil {
		return nil, translateVerificationError(err)
	}
	return &v, nil
}

func (r *VerificationRepositoryImpl) FindByEmployer(db *gorm.DB, employerID string) (*models.EmployerVerification, error) {
	var v models.EmployerVerification
	if err := db.Where("employer_id = ?", employerID).First(&v).Error; err != nil {
		return nil, translateVerificationError(err)
	}
	return &v, nil
}

func (r *VerificationRepositoryImpl) Upsert(db *gorm.DB, v *models.EmployerVerification) error {
	v.UpdatedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "note",
			"storage_key", "original_name", "mime_type", "size_bytes", "document_url",
			"submitted_at", "updated_at",
		}),
	}).Create(v).Error
}

// UpdateDecision не проверяет существование записи - вызывающий код читает ее
// в той же транзакции до записи.
func (r *VerificationRepositoryImpl) UpdateDecision(db *gorm.DB, id string, status models.VerificationStatus, note string) error {
	return db.Model(&models.EmployerVerification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"note":       note,
			"updated_at": time.Now(),
		}).Error
}

func (r *VerificationRepositoryImpl) List(db *gorm.DB, criteria VerificationListCriteria) ([]models.EmployerVerification, int64, error) {
	query := r.filtered(db, criteria)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.EmployerVerification
	err := r.filtered(db, criteria).
		Preload("Employer").
		Order("employer_verifications.updated_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *VerificationRepositoryImpl) filtered(db *gorm.DB, criteria VerificationListCriteria) *gorm.DB {
	query := db.Model(&models.EmployerVerification{}).
		Joins("JOIN users ON users.id = employer_verifications.employer_id")

	if criteria.Status != "" {
		query = query.Where("employer_verifications.status = ?", criteria.Status)
	}

	if search := strings.TrimSpace(criteria.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			"(LOWER(users.name) LIKE ? ESCAPE '!' OR LOWER(users.email) LIKE ? ESCAPE '!')",
			pattern, pattern,
		)
	}

	return query
}

// escapeLike экранирует спецсимволы LIKE. '!' вместо '\' - одинаково работает в postgres, mysql и sqlite.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func translateVerificationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVerificationNotFound
	}
	return err
}
