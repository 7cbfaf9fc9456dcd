package repository

import (
	"context"
	"time"

	"github.com/Govind-619/ShipSphere/models"

	"gorm.io/gorm"
)

// AdminRepository handles admin accounts
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// TouchLastLogin records a successful login
func (r *AdminRepository) TouchLastLogin(ctx context.Context, admin *models.Admin, at time.Time) error {
	admin.LastLogin = at
	return r.db.WithContext(ctx).Model(admin).Update("last_login", at).Error
}

// Upsert creates the admin or refreshes the password and names of an
// existing one with the same email.
func (r *AdminRepository) Upsert(ctx context.Context, admin *models.Admin) error {
	admin.Email = models.NormalizeEmail(admin.Email)

	var existing models.Admin
	err := r.db.WithContext(ctx).
		Where(models.Admin{Email: admin.Email}).
		Attrs(models.Admin{
			Password:  admin.Password,
			FirstName: admin.FirstName,
			LastName:  admin.LastName,
			IsActive:  true,
		}).
		FirstOrCreate(&existing).Error
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"password":   admin.Password,
		"first_name": admin.FirstName,
		"last_name":  admin.LastName,
		"is_active":  true,
	}).Error
	if err != nil {
		return err
	}
	*admin = existing
	return nil
}
