package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sokdnv/padel-bot/internal/db"
)

type AdminAuthRepository struct {
	DB *sql.DB
}

func NewAdminAuthRepository(database *sql.DB) *AdminAuthRepository {
	return &AdminAuthRepository{DB: database}
}

// GetByEmail returns the admin account, or nil when none exists.
func (r *AdminAuthRepository) GetByEmail(email string) (*db.Admin, error) {
	var admin db.Admin
	query := `SELECT id, email, password_hash FROM admins WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&admin.ID, &admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying admin by email: %w", err)
	}
	return &admin, nil
}

func (r *AdminAuthRepository) CreateAdmin(email, passwordHash string) error {
	_, err := r.DB.Exec(`INSERT INTO admins (email, password_hash) VALUES ($1, $2)`, email, passwordHash)
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}
