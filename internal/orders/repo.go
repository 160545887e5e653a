package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dermawan/storefront/internal/cart"
)

// Repo is the Postgres-backed Store.
type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const orderColumns = `id, number, user_id, customer_name, customer_phone, customer_email,
	customer_address, total, status, payment_method, notes, created_at, updated_at`

// Create inserts the order and its lines in one tx. Items never change after
// this, so there is no update path for order_items.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, number, user_id, customer_name, customer_phone, customer_email,
		                   customer_address, total, status, payment_method, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.Number, o.UserID, o.Customer.Name, o.Customer.Phone, o.Customer.Email,
		o.Customer.Address, o.Total, string(o.Status), o.PaymentMethod, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for pos, ln := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, position, item_id, name, qty, unit_price, original_unit_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			o.ID, pos, ln.ItemID, ln.Name, ln.Quantity, ln.UnitPrice, ln.OriginalUnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	return r.getBy(ctx, `id=$1`, id)
}

func (r *Repo) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.getBy(ctx, `number=$1`, number)
}

func (r *Repo) getBy(ctx context.Context, where string, arg any) (*Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	return r.listBy(ctx, ``)
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.listBy(ctx, `WHERE user_id=$1`, userID)
}

func (r *Repo) listBy(ctx context.Context, where string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = r.loadItems(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateStatus is the guarded write behind a successful transition. The
// WHERE clause on updated_at is the store-side optimistic token; a stale
// caller gets ErrStale instead of a silent last-write-wins.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status, prevUpdatedAt, updatedAt time.Time) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=$3
		WHERE id=$1 AND updated_at=$4`,
		id, string(status), updatedAt, prevUpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrStale
	}
	return nil
}

func (r *Repo) loadItems(ctx context.Context, orderID string) ([]cart.Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT item_id, name, qty, unit_price, original_unit_price
		FROM order_items WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []cart.Line
	for rows.Next() {
		var ln cart.Line
		if err := rows.Scan(&ln.ItemID, &ln.Name, &ln.Quantity, &ln.UnitPrice, &ln.OriginalUnitPrice); err != nil {
			return nil, err
		}
		items = append(items, ln)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		status string
	)
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Email,
		&o.Customer.Address, &o.Total, &status, &o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}
