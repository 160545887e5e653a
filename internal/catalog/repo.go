package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/pricing"
)

var ErrNotFound = errors.New("catalog item not found")

type Repo struct{ DB *pgxpool.Pool }

const itemColumns = `id, sku, name, base_price, is_on_sale, discount_type, discount_value, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	dtype, dvalue := discountColumns(it.Discount)
	row := r.DB.QueryRow(ctx, `
		INSERT INTO catalog_items(id, sku, name, base_price, is_on_sale, discount_type, discount_value)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		it.ID, it.SKU, it.Name, it.BasePrice, it.IsOnSale, dtype, dvalue,
	)
	return row.Scan(&it.CreatedAt, &it.UpdatedAt)
}

func (r *Repo) Update(ctx context.Context, it *Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	dtype, dvalue := discountColumns(it.Discount)
	ct, err := r.DB.Exec(ctx, `
		UPDATE catalog_items
		SET sku=$2, name=$3, base_price=$4, is_on_sale=$5, discount_type=$6, discount_value=$7, updated_at=now()
		WHERE id=$1`,
		it.ID, it.SKU, it.Name, it.BasePrice, it.IsOnSale, dtype, dvalue,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Item, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE id=$1`, id)
	it, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (r *Repo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+itemColumns+` FROM catalog_items ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func discountColumns(d *pricing.Discount) (*string, *decimal.Decimal) {
	if d == nil {
		return nil, nil
	}
	t := string(d.Type)
	v := d.Value
	return &t, &v
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		it     Item
		dtype  *string
		dvalue *decimal.Decimal
	)
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.BasePrice, &it.IsOnSale, &dtype, &dvalue, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if dtype != nil && dvalue != nil {
		it.Discount = &pricing.Discount{Type: pricing.DiscountType(*dtype), Value: *dvalue}
	}
	return &it, nil
}
