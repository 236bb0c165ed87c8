package repository

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, params shared.CreateUserParams) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		params.Username,
		params.Email,
		params.PasswordHash,
		params.FirstName,
		params.LastName,
		params.Phone,
		params.Role,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, tx db.DBTX, userID uuid.UUID, firstName, lastName, phone string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, phone = $4, updated_at = NOW() WHERE id = $1`,
		userID, firstName, lastName, phone,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update user profile", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) ListStaffIDs(ctx context.Context, tx db.DBTX) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx,
		`SELECT id FROM users WHERE role = 'staff' AND is_active`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list staff", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan staff id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate staff ids", err)
	}
	return ids, nil
}
