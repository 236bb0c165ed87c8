package commands

import (
	"context"

	"calmtable/internal/domain/menu"
	"calmtable/internal/infra"
	"calmtable/internal/pkg/errs"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMenuValidation = errs.New("menu item validation failed")

type MenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
	DietaryTags []string
}

type MenuCommands interface {
	CreateItem(ctx context.Context, input MenuItemInput) (*queries.MenuItemView, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input MenuItemInput) (*queries.MenuItemView, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
}

type menuCommandsImpl struct {
	uow   shared.UnitOfWork
	views queries.MenuQueries
}

func NewMenuCommands(uow shared.UnitOfWork, views queries.MenuQueries) MenuCommands {
	return &menuCommandsImpl{uow: uow, views: views}
}

func (c *menuCommandsImpl) CreateItem(ctx context.Context, input MenuItemInput) (*queries.MenuItemView, error) {
	category, err := menu.ParseCategory(input.Category)
	if err != nil {
		return nil, errs.Mark(err, ErrMenuValidation)
	}
	item, err := menu.NewItem(input.Name, input.Description, input.Price, category, input.ImageURL, input.DietaryTags)
	if err != nil {
		return nil, errs.Mark(err, ErrMenuValidation)
	}

	var itemID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Menu().Create(ctx, tx.DB(), item)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		itemID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.views.GetByID(ctx, itemID)
}

func (c *menuCommandsImpl) UpdateItem(ctx context.Context, id uuid.UUID, input MenuItemInput) (*queries.MenuItemView, error) {
	category, err := menu.ParseCategory(input.Category)
	if err != nil {
		return nil, errs.Mark(err, ErrMenuValidation)
	}
	item, err := menu.NewItem(input.Name, input.Description, input.Price, category, input.ImageURL, input.DietaryTags)
	if err != nil {
		return nil, errs.Mark(err, ErrMenuValidation)
	}
	item.ID = id

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().MenuItemByID(ctx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrMenuItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Menu().Update(ctx, tx.DB(), item); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.views.GetByID(ctx, id)
}

// DeleteItem removes the catalog row; historical order lines keep their
// snapshotted name and price and simply lose the catalog link.
func (c *menuCommandsImpl) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Menu().Delete(ctx, tx.DB(), id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrMenuItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *menuCommandsImpl) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Menu().SetAvailability(ctx, tx.DB(), id, available); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrMenuItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *menuCommandsImpl) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Menu().SetFeatured(ctx, tx.DB(), id, featured); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrMenuItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
