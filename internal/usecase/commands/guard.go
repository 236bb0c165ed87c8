package commands

import (
	"context"

	"calmtable/internal/domain/user"
	"calmtable/internal/infra"
	"calmtable/internal/pkg/errs"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAuthenticationRequired = errs.New("authentication required")
	ErrForbiddenRole          = errs.New("operation not allowed for this role")
)

// requireCustomer resolves the caller and rejects anonymous or staff callers.
// Booking, checkout and reviewing are customer actions; staff operate through
// their own endpoints.
func requireCustomer(ctx context.Context, reads shared.CommandReads, userID *uuid.UUID) (*shared.UserSnapshot, error) {
	if userID == nil {
		return nil, ErrAuthenticationRequired
	}
	snap, err := reads.UserByID(ctx, *userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrAuthenticationRequired)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if snap.Role == user.RoleStaff.String() {
		return nil, ErrForbiddenRole
	}
	return snap, nil
}
