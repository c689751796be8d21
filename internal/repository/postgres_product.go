package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

type PostgresProductRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{
		db: db,
	}
}

// GetByIDs returns the active products with the given IDs. It fails with
// ErrProductNotFound if any ID is unknown or inactive.
func (p *PostgresProductRepository) GetByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	unique := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	query := `
		SELECT id, name, price, active
		FROM products
		WHERE id = ANY($1) AND active
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(unique))

	for rows.Next() {
		var product domain.Product

		err = rows.Scan(&product.ID, &product.Name, &product.Price, &product.Active)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(products) != len(unique) {
		return nil, domain.ErrProductNotFound
	}

	return products, nil
}
