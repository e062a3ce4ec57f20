// api/store/merch_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"shopfront/api/models"
)

type MerchStore struct {
	db *sql.DB
}

// NewMerchStore creates a new MerchStore instance.
func NewMerchStore(db *sql.DB) *MerchStore {
	return &MerchStore{db: db}
}

// ListMerch returns the full catalog. Optional columns may be NULL in the
// database; they are returned as absent fields and the client synthesizes
// fallbacks, so a sparse catalog row is never an error.
func (s *MerchStore) ListMerch(ctx context.Context) ([]models.RawMerch, error) {
	query := `
		SELECT id, name, description, price, img_uri, available, quantity, is_featured, category
		FROM merch
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchandise: %w", err)
	}
	defer rows.Close()

	var items []models.RawMerch
	for rows.Next() {
		var (
			item       models.RawMerch
			name       sql.NullString
			desc       sql.NullString
			price      sql.NullFloat64
			imgURI     sql.NullString
			available  sql.NullBool
			quantity   sql.NullInt64
			isFeatured sql.NullBool
		)
		if err := rows.Scan(&item.ID, &name, &desc, &price, &imgURI, &available, &quantity, &isFeatured, &item.Category); err != nil {
			log.Printf("Error scanning merch row: %v", err)
			continue
		}
		item.Name = name.String
		item.Description = desc.String
		item.Price = price.Float64
		item.ImgURI = imgURI.String
		item.Quantity = int(quantity.Int64)
		if available.Valid {
			v := available.Bool
			item.Available = &v
		}
		if isFeatured.Valid {
			v := isFeatured.Bool
			item.IsFeatured = &v
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merch rows: %w", err)
	}

	return items, nil
}
