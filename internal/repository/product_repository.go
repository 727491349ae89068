package repository

import (
	"context"
	"database/sql"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

// GetActiveProduct returns the storefront product with its active sizes.
func (r *ProductRepository) GetActiveProduct(ctx context.Context) (*entity.Product, error) {
	productQuery := `SELECT id, name, description, image_url, currency, base_price_paise, out_of_stock, active FROM products WHERE active = TRUE ORDER BY id LIMIT 1`
	sizeQuery := `SELECT id, product_id, label, stock, price_override_paise, is_active FROM product_sizes WHERE product_id = ? AND is_active = TRUE ORDER BY label`

	product := &entity.Product{}
	err := r.db.QueryRowContext(ctx, productQuery).Scan(
		&product.ID, &product.Name, &product.Description, &product.ImageURL,
		&product.Currency, &product.BasePricePaise, &product.OutOfStock, &product.Active,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sizeQuery, product.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		size := entity.SizeVariant{}
		err := rows.Scan(&size.ID, &size.ProductID, &size.Label, &size.Stock, &size.PriceOverridePaise, &size.IsActive)
		if err != nil {
			return nil, err
		}
		product.Sizes = append(product.Sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, description, image_url, currency, base_price_paise, out_of_stock, active) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.ImageURL, product.Currency, product.BasePricePaise, product.OutOfStock, product.Active)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, description = ?, image_url = ?, currency = ?, base_price_paise = ?, out_of_stock = ?, active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.ImageURL, product.Currency, product.BasePricePaise, product.OutOfStock, product.Active, product.ID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) CreateSize(ctx context.Context, size *entity.SizeVariant) (*entity.SizeVariant, error) {
	query := `INSERT INTO product_sizes (product_id, label, stock, price_override_paise, is_active) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, size.ProductID, size.Label, size.Stock, size.PriceOverridePaise, size.IsActive)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	size.ID = int(id)
	return size, nil
}

func (r *ProductRepository) UpdateSize(ctx context.Context, size *entity.SizeVariant) (*entity.SizeVariant, error) {
	query := `UPDATE product_sizes SET label = ?, stock = ?, price_override_paise = ?, is_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, size.Label, size.Stock, size.PriceOverridePaise, size.IsActive, size.ID)
	if err != nil {
		return nil, err
	}
	return size, nil
}

func (r *ProductRepository) DeleteSize(ctx context.Context, id int) error {
	query := `DELETE FROM product_sizes WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// RestockSize adds stock back to a size. Restocking is an admin operation;
// checkout only ever decrements.
func (r *ProductRepository) RestockSize(ctx context.Context, id, qty int) error {
	query := `UPDATE product_sizes SET stock = stock + ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, qty, id)
	return err
}
