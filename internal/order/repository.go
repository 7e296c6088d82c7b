package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Repository is the order-aggregate store. Every mutating operation runs as
// one transaction: either all of its rows are written or none are.
type Repository interface {
	ListOrders(ctx context.Context, skip, count int) ([]Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	AddOrder(ctx context.Context, ord *Order) (int64, error)
	RemoveOrder(ctx context.Context, orderID int64) error
	UpdateOrder(ctx context.Context, ord *Order) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const selectOrders = `
	SELECT o.order_id, o.customer_id, c.company_name,
	       o.employee_id, e.first_name, e.last_name, e.country,
	       o.ship_via, s.company_name,
	       o.order_date, o.required_date, o.shipped_date,
	       o.freight, o.ship_name,
	       o.ship_address, o.ship_city, o.ship_region, o.ship_postal_code, o.ship_country
	FROM orders o
	JOIN customers c ON c.customer_id = o.customer_id
	JOIN employees e ON e.employee_id = o.employee_id
	JOIN shippers s ON s.shipper_id = o.ship_via`

// selectDetails keeps the historical read behavior: a detail whose product
// has no resolvable supplier company name is omitted from the result instead
// of failing the read.
const selectDetails = `
	SELECT d.order_id, d.product_id, p.product_name,
	       p.supplier_id, sup.company_name,
	       p.category_id, cat.category_name,
	       d.unit_price, d.quantity, d.discount
	FROM order_details d
	JOIN products p ON p.product_id = d.product_id
	JOIN categories cat ON cat.category_id = p.category_id
	JOIN suppliers sup ON sup.supplier_id = p.supplier_id
	WHERE d.order_id = ANY($1) AND sup.company_name IS NOT NULL
	ORDER BY d.order_id, d.product_id`

func (r *postgresRepository) ListOrders(ctx context.Context, skip, count int) ([]Order, error) {
	if skip < 0 {
		return nil, fmt.Errorf("skip %d: %w", skip, ErrOutOfRange)
	}
	if count <= 0 {
		return nil, fmt.Errorf("count %d: %w", count, ErrOutOfRange)
	}

	rows, err := r.db.Query(ctx, selectOrders+`
	ORDER BY o.order_id
	OFFSET $1 LIMIT $2`, skip, count)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0, count)
	var orderIDs []int64
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, ord)
		orderIDs = append(orderIDs, ord.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return orders, nil
	}

	detailsByOrder, err := r.loadDetails(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if details, ok := detailsByOrder[orders[i].ID]; ok {
			orders[i].Details = details
		}
	}

	return orders, nil
}

func (r *postgresRepository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	row := r.db.QueryRow(ctx, selectOrders+`
	WHERE o.order_id = $1`, orderID)

	ord, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("repository: failed to select order %d: %w", orderID, err)
	}

	detailsByOrder, err := r.loadDetails(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	if details, ok := detailsByOrder[orderID]; ok {
		ord.Details = details
	}

	return &ord, nil
}

func (r *postgresRepository) AddOrder(ctx context.Context, ord *Order) (orderID int64, err error) {
	if ord == nil {
		return 0, fmt.Errorf("repository: nil order: %w", ErrInvalidArgument)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Customer, employee and shipper ids are written as submitted; a dangling
	// reference surfaces as a foreign-key failure from the insert itself.
	const insertOrder = `
		INSERT INTO orders (customer_id, employee_id, order_date, required_date, shipped_date,
		                    ship_via, freight, ship_name,
		                    ship_address, ship_city, ship_region, ship_postal_code, ship_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING order_id`
	err = tx.QueryRow(ctx, insertOrder,
		ord.Customer.Code.String(),
		ord.Employee.ID,
		ord.OrderDate,
		ord.RequiredDate,
		ord.ShippedDate,
		ord.Shipper.ID,
		ord.Freight,
		ord.ShipName,
		ord.ShippingAddress.Address,
		ord.ShippingAddress.City,
		ord.ShippingAddress.Region,
		ord.ShippingAddress.PostalCode,
		ord.ShippingAddress.Country,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	for _, d := range ord.Details {
		if err := d.validate(); err != nil {
			log.Warn().Err(err).Int64("order_id", orderID).Msg("repository: rejecting order with invalid detail")
			return 0, err
		}

		var productExists bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`, d.Product.ID).Scan(&productExists)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to check product %d: %w", d.Product.ID, err)
		}
		if !productExists {
			return 0, fmt.Errorf("product %d does not exist: %w", d.Product.ID, ErrInvalidDetail)
		}

		_, err = tx.Exec(ctx, insertDetail, orderID, d.Product.ID, d.UnitPrice, d.Quantity, d.Discount)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to insert detail for product %d: %w", d.Product.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit order insert: %w", err)
	}

	log.Info().Int64("order_id", orderID).Int("details", len(ord.Details)).Msg("repository: order created")
	return orderID, nil
}

func (r *postgresRepository) RemoveOrder(ctx context.Context, orderID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `DELETE FROM order_details WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete details of order %d: %w", orderID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit order delete: %w", err)
	}

	log.Info().Int64("order_id", orderID).Msg("repository: order removed")
	return nil
}

func (r *postgresRepository) UpdateOrder(ctx context.Context, ord *Order) error {
	if ord == nil {
		return fmt.Errorf("repository: nil order: %w", ErrInvalidArgument)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// shipped_date keeps its stored value when the submitted one is null;
	// every other scalar is overwritten unconditionally.
	const updateOrder = `
		UPDATE orders
		SET customer_id = $1, employee_id = $2, order_date = $3, required_date = $4,
		    shipped_date = COALESCE($5, shipped_date),
		    ship_via = $6, freight = $7, ship_name = $8,
		    ship_address = $9, ship_city = $10, ship_region = $11, ship_postal_code = $12, ship_country = $13
		WHERE order_id = $14`
	cmdTag, err := tx.Exec(ctx, updateOrder,
		ord.Customer.Code.String(),
		ord.Employee.ID,
		ord.OrderDate,
		ord.RequiredDate,
		ord.ShippedDate,
		ord.Shipper.ID,
		ord.Freight,
		ord.ShipName,
		ord.ShippingAddress.Address,
		ord.ShippingAddress.City,
		ord.ShippingAddress.Region,
		ord.ShippingAddress.PostalCode,
		ord.ShippingAddress.Country,
		ord.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %d: %w", ord.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", ord.ID, ErrOrderNotFound)
	}

	persisted, err := loadPersistedDetails(ctx, tx, ord.ID)
	if err != nil {
		return err
	}

	changes := reconcileDetails(persisted, ord.Details)

	if len(changes.remove) > 0 {
		_, err = tx.Exec(ctx, `DELETE FROM order_details WHERE order_id = $1 AND product_id = ANY($2)`, ord.ID, changes.remove)
		if err != nil {
			return fmt.Errorf("repository: failed to delete stale details of order %d: %w", ord.ID, err)
		}
	}
	for _, d := range changes.update {
		_, err = tx.Exec(ctx, `
			UPDATE order_details
			SET unit_price = $1, quantity = $2, discount = $3
			WHERE order_id = $4 AND product_id = $5`,
			d.UnitPrice, d.Quantity, d.Discount, ord.ID, d.Product.ID)
		if err != nil {
			return fmt.Errorf("repository: failed to update detail for product %d: %w", d.Product.ID, err)
		}
	}
	for _, d := range changes.insert {
		_, err = tx.Exec(ctx, insertDetail, ord.ID, d.Product.ID, d.UnitPrice, d.Quantity, d.Discount)
		if err != nil {
			return fmt.Errorf("repository: failed to insert detail for product %d: %w", d.Product.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit order update: %w", err)
	}

	log.Info().
		Int64("order_id", ord.ID).
		Int("removed", len(changes.remove)).
		Int("updated", len(changes.update)).
		Int("inserted", len(changes.insert)).
		Msg("repository: order updated")
	return nil
}

const insertDetail = `
	INSERT INTO order_details (order_id, product_id, unit_price, quantity, discount)
	VALUES ($1, $2, $3, $4, $5)`

// loadDetails fetches the hydrated details of the given orders in one query
// and groups them by order id.
func (r *postgresRepository) loadDetails(ctx context.Context, orderIDs []int64) (map[int64][]Detail, error) {
	rows, err := r.db.Query(ctx, selectDetails, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order details: %w", err)
	}
	defer rows.Close()

	detailsByOrder := make(map[int64][]Detail, len(orderIDs))
	for rows.Next() {
		var dr detailRow
		err := rows.Scan(
			&dr.OrderID,
			&dr.ProductID,
			&dr.ProductName,
			&dr.SupplierID,
			&dr.SupplierCompany,
			&dr.CategoryID,
			&dr.CategoryName,
			&dr.UnitPrice,
			&dr.Quantity,
			&dr.Discount,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order detail: %w", err)
		}
		detailsByOrder[dr.OrderID] = append(detailsByOrder[dr.OrderID], dr.toDetail())
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order details: %w", err)
	}

	return detailsByOrder, nil
}

// loadPersistedDetails reads the bare order_details rows of one order inside
// the update transaction. No joins here: reconciliation only needs the
// product id and the mutable columns.
func loadPersistedDetails(ctx context.Context, tx pgx.Tx, orderID int64) ([]Detail, error) {
	rows, err := tx.Query(ctx, `
		SELECT product_id, unit_price, quantity, discount
		FROM order_details
		WHERE order_id = $1
		ORDER BY product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query details of order %d: %w", orderID, err)
	}
	defer rows.Close()

	var details []Detail
	for rows.Next() {
		d := Detail{OrderID: orderID}
		if err := rows.Scan(&d.Product.ID, &d.UnitPrice, &d.Quantity, &d.Discount); err != nil {
			return nil, fmt.Errorf("repository: failed to scan detail of order %d: %w", orderID, err)
		}
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating details of order %d: %w", orderID, err)
	}

	return details, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var or orderRow
	err := row.Scan(
		&or.ID,
		&or.CustomerID,
		&or.CustomerCompany,
		&or.EmployeeID,
		&or.EmployeeFirstName,
		&or.EmployeeLastName,
		&or.EmployeeCountry,
		&or.ShipperID,
		&or.ShipperCompany,
		&or.OrderDate,
		&or.RequiredDate,
		&or.ShippedDate,
		&or.Freight,
		&or.ShipName,
		&or.ShipAddress,
		&or.ShipCity,
		&or.ShipRegion,
		&or.ShipPostalCode,
		&or.ShipCountry,
	)
	if err != nil {
		return Order{}, err
	}
	return or.toOrder()
}
