package commands

import (
	"context"
	"strings"

	"calmtable/internal/domain/user"
	"calmtable/internal/infra"
	"calmtable/internal/pkg/errs"
	"calmtable/internal/pkg/jwt"
	"calmtable/internal/pkg/password"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAuthValidation     = errs.New("auth validation failed")
	ErrEmailAlreadyInUse  = errs.New("email or username already registered")
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrUserNotFound       = errs.New("user not found")
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	Token string
	User  *queries.UserView
}

type AuthCommands interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// Login accepts an email address or a username.
	Login(ctx context.Context, login, plainPassword string) (*AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*queries.UserView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, phone string) (*queries.UserView, error)
}

type authCommandsImpl struct {
	uow shared.UnitOfWork
	jwt *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, jwt: jwtService}
}

// Register always creates customers; staff accounts are provisioned out of
// band.
func (c *authCommandsImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email, err := user.NewEmail(input.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthValidation)
	}
	if input.Username == "" || len(input.Password) < 8 {
		return nil, ErrAuthValidation
	}

	hash, err := password.HashPassword(input.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthValidation)
	}

	var userID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Users().Create(ctx, tx.DB(), shared.CreateUserParams{
			Username:     input.Username,
			Email:        email.String(),
			PasswordHash: hash,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Phone:        input.Phone,
			Role:         user.RoleCustomer.String(),
		})
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrEmailAlreadyInUse)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		userID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.buildAuthResult(ctx, userID)
}

func (c *authCommandsImpl) Login(ctx context.Context, login, plainPassword string) (*AuthResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || plainPassword == "" {
		return nil, ErrInvalidCredentials
	}

	snap, err := c.uow.CommandReads().UserByLogin(ctx, login)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !snap.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := password.ComparePassword(snap.PasswordHash, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c.buildAuthResult(ctx, snap.ID)
}

func (c *authCommandsImpl) Me(ctx context.Context, userID uuid.UUID) (*queries.UserView, error) {
	snap, err := c.uow.CommandReads().UserByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return userViewFromSnapshot(snap), nil
}

func (c *authCommandsImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, phone string) (*queries.UserView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().UserByID(ctx, userID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Users().UpdateProfile(ctx, tx.DB(), userID, firstName, lastName, phone); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.Me(ctx, userID)
}

func (c *authCommandsImpl) buildAuthResult(ctx context.Context, userID uuid.UUID) (*AuthResult, error) {
	snap, err := c.uow.CommandReads().UserByID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	role, err := user.ParseRole(snap.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	token, err := c.jwt.GenerateToken(snap.ID, snap.Email, role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthValidation)
	}

	return &AuthResult{Token: token, User: userViewFromSnapshot(snap)}, nil
}

func userViewFromSnapshot(snap *shared.UserSnapshot) *queries.UserView {
	return &queries.UserView{
		ID:        snap.ID,
		Username:  snap.Username,
		Email:     snap.Email,
		FirstName: snap.FirstName,
		LastName:  snap.LastName,
		Phone:     snap.Phone,
		Role:      snap.Role,
		IsActive:  snap.IsActive,
	}
}
