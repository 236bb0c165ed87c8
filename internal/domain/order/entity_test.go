package order_test

import (
	"testing"

	"calmtable/internal/domain/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewLine(t *testing.T) {
	orderID := uuid.New()
	menuItemID := uuid.New()

	testCases := []struct {
		name        string
		menuItemID  *uuid.UUID
		itemName    string
		unitPrice   decimal.Decimal
		quantity    int
		expectedErr error
	}{
		{name: "success: catalog line", menuItemID: &menuItemID, itemName: "Braised Lamb", unitPrice: dec("70.00"), quantity: 1},
		{name: "success: ad-hoc line", itemName: "Chef Special", unitPrice: dec("12.50"), quantity: 3},
		{name: "success: quantity upper bound", menuItemID: &menuItemID, itemName: "Espresso", unitPrice: dec("3.00"), quantity: 50},
		{name: "error: quantity zero", menuItemID: &menuItemID, itemName: "Espresso", unitPrice: dec("3.00"), quantity: 0, expectedErr: order.ErrInvalidQuantity},
		{name: "error: quantity over max", menuItemID: &menuItemID, itemName: "Espresso", unitPrice: dec("3.00"), quantity: 51, expectedErr: order.ErrInvalidQuantity},
		{name: "error: blank name", menuItemID: nil, itemName: "  ", unitPrice: dec("3.00"), quantity: 1, expectedErr: order.ErrMissingItemName},
		{name: "error: negative price", menuItemID: nil, itemName: "Mystery", unitPrice: dec("-1.00"), quantity: 1, expectedErr: order.ErrNegativePrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line, err := order.NewLine(orderID, tc.menuItemID, tc.itemName, tc.unitPrice, tc.quantity)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.quantity, line.Quantity())
			assert.True(t, line.UnitPrice().Equal(tc.unitPrice.Round(2)))
		})
	}
}

func TestLine_LineTotal(t *testing.T) {
	orderID := uuid.New()

	line, err := order.NewLine(orderID, nil, "Dish B", dec("35.00"), 2)
	require.NoError(t, err)
	assert.True(t, line.LineTotal().Equal(dec("70.00")), "got %s", line.LineTotal())

	// Fixed-point multiplication must not drift.
	line, err = order.NewLine(orderID, nil, "Petit Four", dec("0.10"), 3)
	require.NoError(t, err)
	assert.True(t, line.LineTotal().Equal(dec("0.30")), "got %s", line.LineTotal())
}

func TestSumLineTotals(t *testing.T) {
	orderID := uuid.New()

	mk := func(name, price string, qty int) *order.Line {
		line, err := order.NewLine(orderID, nil, name, dec(price), qty)
		require.NoError(t, err)
		return line
	}

	// A x1 @70.00, B x2 @35.00, then B x1 @35.00 appended by a second
	// checkout call -> 70 + 70 + 35 = 175.00.
	lines := []*order.Line{
		mk("Dish A", "70.00", 1),
		mk("Dish B", "35.00", 2),
		mk("Dish B", "35.00", 1),
	}

	total := order.SumLineTotals(lines)
	assert.True(t, total.Equal(dec("175.00")), "got %s", total)

	assert.True(t, order.SumLineTotals(nil).Equal(decimal.Zero))
}

func TestNumberGenerator(t *testing.T) {
	gen := order.NewNumberGenerator("CT-")

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		number, err := gen.Generate()
		require.NoError(t, err)
		require.NoError(t, gen.Validate(number), "generated number %q must validate", number)
		require.NoError(t, order.ValidateOrderNumber(number))
		seen[number] = struct{}{}
	}
	assert.Len(t, seen, 100)

	assert.ErrorIs(t, gen.Validate("XX-DEADBEEF"), order.ErrInvalidOrderNumber)
	assert.ErrorIs(t, gen.Validate("CT-deadbeef"), order.ErrInvalidOrderNumber)
	assert.ErrorIs(t, gen.Validate("CT-DEADBEE"), order.ErrInvalidOrderNumber)
}

func TestStatus(t *testing.T) {
	assert.True(t, order.StatusPending.IsOpen())
	for _, closed := range []order.Status{order.StatusConfirmed, order.StatusPreparing, order.StatusReady, order.StatusCompleted, order.StatusCancelled} {
		assert.False(t, closed.IsOpen(), "%s must not accept consolidation", closed)
	}

	_, err := order.ParseStatus("shipped")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}
