package readstore

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"
	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (s *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	const query = `
		SELECT id, order_number, customer_id, customer_name, customer_email,
		       status, total_amount, notes, payment_reference, created_at, updated_at
		FROM orders
		WHERE id = $1`

	var (
		view       queries.OrderView
		customerID pgtype.UUID
		total      pgtype.Numeric
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.OrderNumber, &customerID, &view.CustomerName, &view.CustomerEmail,
		&view.Status, &total, &view.Notes, &view.PaymentReference, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	view.CustomerID = pgconv.UUIDPtrFromPgtype(customerID)
	view.TotalAmount, err = pgconv.DecimalFromPgtype(total)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid order total", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	view.Lines, err = s.findLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *OrderReadStore) findLines(ctx context.Context, orderID uuid.UUID) ([]queries.OrderLineView, error) {
	const query = `
		SELECT id, menu_item_id, item_name, unit_price, quantity,
		       (unit_price * quantity)::numeric(10,2) AS line_total, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order lines", err)
	}
	defer rows.Close()

	lines := []queries.OrderLineView{}
	for rows.Next() {
		var (
			line       queries.OrderLineView
			menuItemID pgtype.UUID
			unitPrice  pgtype.Numeric
			lineTotal  pgtype.Numeric
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&line.ID, &menuItemID, &line.ItemName, &unitPrice, &line.Quantity, &lineTotal, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order line", err)
		}
		line.MenuItemID = pgconv.UUIDPtrFromPgtype(menuItemID)
		if line.UnitPrice, err = pgconv.DecimalFromPgtype(unitPrice); err != nil {
			return nil, infra.WrapRepoErr("invalid line unit price", err)
		}
		if line.LineTotal, err = pgconv.DecimalFromPgtype(lineTotal); err != nil {
			return nil, infra.WrapRepoErr("invalid line total", err)
		}
		line.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order lines", err)
	}
	return lines, nil
}

func (s *OrderReadStore) FindByCustomer(ctx context.Context, customerID uuid.UUID, email string) ([]*queries.OrderListItem, error) {
	const query = `
		SELECT o.id, o.order_number, o.customer_name, o.customer_email, o.status,
		       o.total_amount, COUNT(ol.id) AS line_count, o.created_at
		FROM orders o
		LEFT JOIN order_lines ol ON ol.order_id = o.id
		WHERE o.customer_id = $1 OR ($2 <> '' AND LOWER(o.customer_email) = LOWER($2))
		GROUP BY o.id
		ORDER BY o.created_at DESC`

	rows, err := s.db.Query(ctx, query, customerID, email)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	return collectOrderListItems(rows)
}

func (s *OrderReadStore) FindAll(ctx context.Context, status string) ([]*queries.OrderListItem, error) {
	const query = `
		SELECT o.id, o.order_number, o.customer_name, o.customer_email, o.status,
		       o.total_amount, COUNT(ol.id) AS line_count, o.created_at
		FROM orders o
		LEFT JOIN order_lines ol ON ol.order_id = o.id
		WHERE ($1 = '' OR o.status = $1)
		GROUP BY o.id
		ORDER BY o.created_at DESC`

	rows, err := s.db.Query(ctx, query, status)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	return collectOrderListItems(rows)
}

func collectOrderListItems(rows pgx.Rows) ([]*queries.OrderListItem, error) {
	defer rows.Close()

	items := []*queries.OrderListItem{}
	for rows.Next() {
		var (
			item      queries.OrderListItem
			total     pgtype.Numeric
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(&item.ID, &item.OrderNumber, &item.CustomerName, &item.CustomerEmail,
			&item.Status, &total, &item.LineCount, &createdAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order", err)
		}
		if item.TotalAmount, err = pgconv.DecimalFromPgtype(total); err != nil {
			return nil, infra.WrapRepoErr("invalid order total", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate orders", err)
	}
	return items, nil
}
