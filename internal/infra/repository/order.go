package repository

import (
	"context"

	"calmtable/internal/domain/order"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// LockPending takes a transaction-scoped advisory lock on the customer,
// released at commit or rollback. Same pattern as the reservation slot lock.
func (r *OrderRepository) LockPending(ctx context.Context, tx db.DBTX, customerID uuid.UUID) error {
	key := "orders/pending/" + customerID.String()
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return infra.WrapRepoErr("failed to lock pending order", err)
	}
	return nil
}

// FindNewestPendingForUpdate row-locks the consolidation target. Matching is
// by customer ID for authenticated checkouts, by email otherwise.
func (r *OrderRepository) FindNewestPendingForUpdate(ctx context.Context, tx db.DBTX, customerID *uuid.UUID, email string) (*order.Order, error) {
	const query = `
		SELECT id, order_number, customer_id, customer_name, customer_email,
		       status, total_amount, notes, created_at, updated_at
		FROM orders
		WHERE status = 'pending'
		  AND (
			($1::uuid IS NOT NULL AND customer_id = $1)
			OR ($1::uuid IS NULL AND LOWER(customer_email) = LOWER($2))
		  )
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`

	row := tx.QueryRow(ctx, query, pgconv.UUIDPtrToPgtype(customerID), email)
	entity, err := scanOrder(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find pending order", err)
	}
	return entity, nil
}

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error) {
	const query = `
		INSERT INTO orders (
			id, order_number, customer_id, customer_name, customer_email,
			status, total_amount, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		o.ID(),
		o.OrderNumber(),
		pgconv.UUIDPtrToPgtype(o.CustomerID()),
		o.CustomerName(),
		o.CustomerEmail(),
		string(o.Status()),
		pgconv.DecimalToPgtype(o.TotalAmount()),
		o.Notes(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}
	return id, nil
}

func (r *OrderRepository) AppendLines(ctx context.Context, tx db.DBTX, lines []*order.Line) error {
	const query = `
		INSERT INTO order_lines (id, order_id, menu_item_id, item_name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, line := range lines {
		_, err := tx.Exec(ctx, query,
			line.ID(),
			line.OrderID(),
			pgconv.UUIDPtrToPgtype(line.MenuItemID()),
			line.ItemName(),
			pgconv.DecimalToPgtype(line.UnitPrice()),
			line.Quantity(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to append order line", err)
		}
	}
	return nil
}

func (r *OrderRepository) LinesByOrder(ctx context.Context, tx db.DBTX, orderID uuid.UUID) ([]*order.Line, error) {
	const query = `
		SELECT id, order_id, menu_item_id, item_name, unit_price, quantity, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at, id`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order lines", err)
	}
	defer rows.Close()

	var lines []*order.Line
	for rows.Next() {
		var (
			id, oid    uuid.UUID
			menuItemID pgtype.UUID
			itemName   string
			unitPrice  pgtype.Numeric
			quantity   int
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &oid, &menuItemID, &itemName, &unitPrice, &quantity, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order line", err)
		}
		price, err := pgconv.DecimalFromPgtype(unitPrice)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid unit price", err)
		}
		lines = append(lines, order.ReconstructLine(
			id, oid,
			pgconv.UUIDPtrFromPgtype(menuItemID),
			itemName, price, quantity,
			pgconv.TimeFromPgtype(createdAt),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order lines", err)
	}
	return lines, nil
}

func (r *OrderRepository) UpdateTotal(ctx context.Context, tx db.DBTX, orderID uuid.UUID, total decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET total_amount = $2, updated_at = NOW() WHERE id = $1`,
		orderID, pgconv.DecimalToPgtype(total),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order total", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

// BackfillContact only writes columns that are currently blank; existing
// customer data is never overwritten by a later checkout.
func (r *OrderRepository) BackfillContact(ctx context.Context, tx db.DBTX, orderID uuid.UUID, name, email string) error {
	const query = `
		UPDATE orders SET
			customer_name  = CASE WHEN customer_name = '' THEN $2 ELSE customer_name END,
			customer_email = CASE WHEN customer_email = '' THEN $3 ELSE customer_email END,
			updated_at = NOW()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, orderID, name, email); err != nil {
		return infra.WrapRepoErr("failed to backfill order contact", err)
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx db.DBTX, orderID uuid.UUID, status order.Status) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		orderID, string(status),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) SetPaymentReference(ctx context.Context, tx db.DBTX, orderID uuid.UUID, ref string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET payment_reference = $2, updated_at = NOW() WHERE id = $1`,
		orderID, ref,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set payment reference", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var (
		id            uuid.UUID
		orderNumber   string
		customerID    pgtype.UUID
		customerName  string
		customerEmail string
		status        string
		totalAmount   pgtype.Numeric
		notes         string
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := row.Scan(&id, &orderNumber, &customerID, &customerName, &customerEmail,
		&status, &totalAmount, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	total, err := pgconv.DecimalFromPgtype(totalAmount)
	if err != nil {
		return nil, err
	}
	parsedStatus, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return order.ReconstructOrder(
		id, orderNumber,
		pgconv.UUIDPtrFromPgtype(customerID),
		customerName, customerEmail,
		parsedStatus, total, notes,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
