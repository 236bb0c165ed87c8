package readstore

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
)

const userColumns = `
	id, username, email, first_name, last_name, phone, role, password_hash, is_active`

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (s *UserReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	var snap shared.UserSnapshot
	err := row.Scan(&snap.ID, &snap.Username, &snap.Email, &snap.FirstName, &snap.LastName,
		&snap.Phone, &snap.Role, &snap.PasswordHash, &snap.IsActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &snap, nil
}

// SnapshotByLogin resolves a login identifier: email (case-insensitive) or
// exact username.
func (s *UserReadStore) SnapshotByLogin(ctx context.Context, login string) (*shared.UserSnapshot, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) OR username = $1`, login)

	var snap shared.UserSnapshot
	err := row.Scan(&snap.ID, &snap.Username, &snap.Email, &snap.FirstName, &snap.LastName,
		&snap.Phone, &snap.Role, &snap.PasswordHash, &snap.IsActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user by login", err)
	}
	return &snap, nil
}
