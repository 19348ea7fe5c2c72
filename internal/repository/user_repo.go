package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/sokdnv/padel-bot/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

// SaveUser upserts the user's chat profile so display names stay fresh.
func (r *UserRepository) SaveUser(user db.User) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name`
	_, err := r.DB.Exec(query, user.ID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		return fmt.Errorf("error saving user %d: %w", user.ID, err)
	}
	return nil
}

// ResolveDisplayNames maps user IDs to display strings: @username, else
// first name with optional last name, else "User<id>". IDs unknown to the
// store are simply absent from the result.
func (r *UserRepository) ResolveDisplayNames(userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}

	query := `SELECT user_id, username, first_name, last_name FROM users WHERE user_id = ANY($1)`
	rows, err := r.DB.Query(query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("error querying users info: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(userIDs))
	for rows.Next() {
		var (
			id                            int64
			username, firstName, lastName sql.NullString
		)
		if err := rows.Scan(&id, &username, &firstName, &lastName); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		names[id] = formatDisplayName(id, username, firstName, lastName)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating user rows: %w", err)
	}
	return names, nil
}

// AllUserIDs returns every registered user, oldest first.
func (r *UserRepository) AllUserIDs() ([]int64, error) {
	rows, err := r.DB.Query(`SELECT user_id FROM users ORDER BY registered_at`)
	if err != nil {
		return nil, fmt.Errorf("error querying user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating user ids: %w", err)
	}
	return ids, nil
}

func formatDisplayName(id int64, username, firstName, lastName sql.NullString) string {
	if username.Valid && username.String != "" {
		return "@" + username.String
	}
	if firstName.Valid && firstName.String != "" {
		name := firstName.String
		if lastName.Valid && lastName.String != "" {
			name += " " + lastName.String
		}
		return name
	}
	return fmt.Sprintf("User%d", id)
}
