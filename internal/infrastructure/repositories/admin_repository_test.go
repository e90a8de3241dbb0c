package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/rahulwaghole14/mandap/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&DBAdmin{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestAdminRepositoryImpl_Create(t *testing.T) {
	repo := NewAdminRepository(setupTestDB(t))
	ctx := context.Background()

	admin := &domain.Admin{Email: " Admin@Example.com ", PasswordHash: "hash", Role: "admin", IsActive: true}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.ID == 0 {
		t.Error("expected ID to be assigned")
	}

	err := repo.Create(ctx, &domain.Admin{Email: "admin@example.com", PasswordHash: "x", Role: "operator"})
	if !errors.Is(err, domain.ErrAdminAlreadyExists) {
		t.Errorf("expected ErrAdminAlreadyExists, got %v", err)
	}
}

func TestAdminRepositoryImpl_Find(t *testing.T) {
	repo := NewAdminRepository(setupTestDB(t))
	ctx := context.Background()

	admin := &domain.Admin{Email: "ops@example.com", PasswordHash: "hash", Role: "operator", IsActive: true}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name          string
		find          func() (*domain.Admin, error)
		expectedEmail string
		expectedError error
	}{
		{
			name:          "by email, case-insensitive",
			find:          func() (*domain.Admin, error) { return repo.FindByEmail(ctx, "OPS@example.com") },
			expectedEmail: "ops@example.com",
		},
		{
			name:          "by id",
			find:          func() (*domain.Admin, error) { return repo.FindByID(ctx, admin.ID) },
			expectedEmail: "ops@example.com",
		},
		{
			name:          "unknown email",
			find:          func() (*domain.Admin, error) { return repo.FindByEmail(ctx, "who@example.com") },
			expectedError: domain.ErrAdminNotFound,
		},
		{
			name:          "unknown id",
			find:          func() (*domain.Admin, error) { return repo.FindByID(ctx, 999) },
			expectedError: domain.ErrAdminNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.find()
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Email != tt.expectedEmail || got.Role != "operator" || !got.IsActive {
				t.Errorf("unexpected admin %+v", got)
			}
		})
	}
}

func TestAdminRepositoryImpl_Count(t *testing.T) {
	repo := NewAdminRepository(setupTestDB(t))
	ctx := context.Background()

	n, err := repo.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 admins, got %d (%v)", n, err)
	}
	_ = repo.Create(ctx, &domain.Admin{Email: "a@example.com", PasswordHash: "h", Role: "admin"})
	_ = repo.Create(ctx, &domain.Admin{Email: "b@example.com", PasswordHash: "h", Role: "operator"})

	n, err = repo.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("expected 2 admins, got %d (%v)", n, err)
	}
}
