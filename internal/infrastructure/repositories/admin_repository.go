package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements domain.AdminRepository using GORM
type AdminRepositoryImpl struct {
	db *gorm.DB
}

// DBAdmin represents the database model for Admin (with GORM tags)
type DBAdmin struct {
	ID           uint           `gorm:"primaryKey"`
	Email        string         `gorm:"uniqueIndex;size:255"`
	PasswordHash string         `gorm:"column:password"`
	Role         string         `gorm:"index;size:64"`
	IsActive     bool           `gorm:"index"`
	CreatedAt    time.Time      `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAdmin) TableName() string {
	return "admins"
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) domain.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

// Create implements domain.AdminRepository
func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *domain.Admin) error {
	if _, err := r.FindByEmail(ctx, admin.Email); err == nil {
		return domain.ErrAdminAlreadyExists
	} else if !errors.Is(err, domain.ErrAdminNotFound) {
		return err
	}

	dbAdmin := r.domainToDB(admin)
	if err := r.db.WithContext(ctx).Create(dbAdmin).Error; err != nil {
		return err
	}
	admin.ID = dbAdmin.ID
	admin.CreatedAt = dbAdmin.CreatedAt
	admin.UpdatedAt = dbAdmin.UpdatedAt
	return nil
}

// FindByEmail implements domain.AdminRepository. Emails compare case-insensitively.
func (r *AdminRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var dbAdmin DBAdmin
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&dbAdmin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAdmin), nil
}

// FindByID implements domain.AdminRepository
func (r *AdminRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Admin, error) {
	var dbAdmin DBAdmin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAdmin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAdmin), nil
}

// Count implements domain.AdminRepository
func (r *AdminRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBAdmin{}).Count(&n).Error
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// domainToDB converts domain admin to database admin
func (r *AdminRepositoryImpl) domainToDB(admin *domain.Admin) *DBAdmin {
	return &DBAdmin{
		ID:           admin.ID,
		Email:        normalizeEmail(admin.Email),
		PasswordHash: admin.PasswordHash,
		Role:         admin.Role,
		IsActive:     admin.IsActive,
	}
}

// dbToDomain converts database admin to domain admin
func (r *AdminRepositoryImpl) dbToDomain(dbAdmin *DBAdmin) *domain.Admin {
	return &domain.Admin{
		ID:           dbAdmin.ID,
		Email:        dbAdmin.Email,
		PasswordHash: dbAdmin.PasswordHash,
		Role:         dbAdmin.Role,
		IsActive:     dbAdmin.IsActive,
		CreatedAt:    dbAdmin.CreatedAt,
		UpdatedAt:    dbAdmin.UpdatedAt,
	}
}
