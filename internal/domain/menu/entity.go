package menu

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCategory = errors.New("invalid menu category")
	ErrMissingName     = errors.New("menu item name is required")
	ErrNegativePrice   = errors.New("menu item price cannot be negative")
)

type Category string

const (
	CategoryStarters Category = "starters"
	CategoryMains    Category = "mains"
	CategoryDesserts Category = "desserts"
	CategoryDrinks   Category = "drinks"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryStarters, CategoryMains, CategoryDesserts, CategoryDrinks:
		return Category(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

// Item is a dish or drink on the menu. Prices are fixed-point with two
// decimal places; order lines snapshot the price at checkout so later edits
// here never rewrite history.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Category    Category
	ImageURL    string
	IsAvailable bool
	IsFeatured  bool
	DietaryTags []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewItem(name, description string, price decimal.Decimal, category Category, imageURL string, dietaryTags []string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	if dietaryTags == nil {
		dietaryTags = []string{}
	}

	return &Item{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       price.Round(2),
		Category:    category,
		ImageURL:    imageURL,
		IsAvailable: true,
		IsFeatured:  false,
		DietaryTags: dietaryTags,
	}, nil
}
