package cart

import (
	"context"
	"fmt"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines cart operations for customers.
type Service interface {
	GetActiveCart(ctx context.Context, customerID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, input AddItemInput) (*View, error)
	SetQuantity(ctx context.Context, input SetQuantityInput) (*View, error)
	RemoveItem(ctx context.Context, customerID, menuItemID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	repo Repository
	menu MenuItemLoader
	tx   txRunner
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, menu MenuItemLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if menu == nil {
		return nil, fmt.Errorf("menu item loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, menu: menu, tx: tx}, nil
}

func (s *service) GetActiveCart(ctx context.Context, customerID uuid.UUID) (*View, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return emptyView(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return buildView(record), nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.MenuItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	menuItem, err := s.menu.FindMenuItem(ctx, input.MenuItemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if !menuItem.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "menu item is unavailable")
	}

	var cartID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindActiveByCustomer(ctx, input.CustomerID)
		switch {
		case err == gorm.ErrRecordNotFound:
			record, err = txRepo.Create(ctx, &models.CartRecord{
				CustomerID:   input.CustomerID,
				RestaurantID: menuItem.RestaurantID,
				Status:       enums.CartStatusActive,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		case record.RestaurantID != menuItem.RestaurantID:
			// Adding from another restaurant abandons the current cart
			// and starts a fresh one.
			if err := txRepo.UpdateStatus(ctx, record.ID, enums.CartStatusAbandoned); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "abandon cart")
			}
			record, err = txRepo.Create(ctx, &models.CartRecord{
				CustomerID:   input.CustomerID,
				RestaurantID: menuItem.RestaurantID,
				Status:       enums.CartStatusActive,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		}

		item := &models.CartItem{
			CartID:         record.ID,
			MenuItemID:     menuItem.ID,
			Quantity:       input.Quantity,
			UnitPriceCents: menuItem.PriceCents,
			Note:           input.Note,
		}
		if err := txRepo.UpsertItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart item")
		}
		cartID = record.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.viewByID(ctx, cartID)
}

func (s *service) SetQuantity(ctx context.Context, input SetQuantityInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.MenuItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	var cartID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindActiveByCustomer(ctx, input.CustomerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		}

		line := findLine(record, input.MenuItemID)
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}

		if input.Quantity < 1 {
			if err := txRepo.DeleteItem(ctx, line.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
			}
		} else if err := txRepo.UpdateItemQuantity(ctx, line.ID, input.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		cartID = record.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.viewByID(ctx, cartID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, menuItemID uuid.UUID) (*View, error) {
	return s.SetQuantity(ctx, SetQuantityInput{
		CustomerID: customerID,
		MenuItemID: menuItemID,
		Quantity:   0,
	})
}

func (s *service) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := txRepo.FindActiveByCustomer(ctx, customerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		}
		if err := txRepo.DeleteItems(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
		}
		if err := txRepo.UpdateStatus(ctx, record.ID, enums.CartStatusAbandoned); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "abandon cart")
		}
		return nil
	})
}

func (s *service) viewByID(ctx context.Context, cartID uuid.UUID) (*View, error) {
	record, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return buildView(record), nil
}

func findLine(record *models.CartRecord, menuItemID uuid.UUID) *models.CartItem {
	for i := range record.Items {
		if record.Items[i].MenuItemID == menuItemID {
			return &record.Items[i]
		}
	}
	return nil
}
