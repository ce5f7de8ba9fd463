package catalog

import (
	"database/sql"
	"fmt"
)

// Load reads the full catalog from the database in one pass and builds the
// immutable in-memory model. It is meant to run once at startup, after
// migrations and seed.
func Load(db *sql.DB) (*Catalog, error) {
	materials, err := loadMaterials(db)
	if err != nil {
		return nil, err
	}

	types, err := loadProductTypes(db)
	if err != nil {
		return nil, err
	}

	providers, err := loadProviders(db)
	if err != nil {
		return nil, err
	}

	return New(types, materials, providers)
}

func loadMaterials(db *sql.DB) ([]MaterialOption, error) {
	rows, err := db.Query(`
		SELECT id, name, surcharge
		FROM materials
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]MaterialOption, 0)
	for rows.Next() {
		var m MaterialOption
		if err := rows.Scan(&m.ID, &m.Name, &m.Surcharge); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

func loadProductTypes(db *sql.DB) ([]ProductType, error) {
	rows, err := db.Query(`
		SELECT id, name, base_price
		FROM product_types
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query product types: %w", err)
	}
	defer rows.Close()

	types := make([]ProductType, 0)
	for rows.Next() {
		var pt ProductType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.BasePrice); err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product types: %w", err)
	}

	for i := range types {
		sizes, err := loadSizes(db, types[i].ID)
		if err != nil {
			return nil, err
		}
		types[i].Sizes = sizes

		materialIDs, err := loadTypeMaterials(db, types[i].ID)
		if err != nil {
			return nil, err
		}
		types[i].MaterialIDs = materialIDs
	}

	return types, nil
}

func loadSizes(db *sql.DB, productTypeID string) ([]SizeOption, error) {
	rows, err := db.Query(`
		SELECT size_id, multiplier
		FROM product_sizes
		WHERE product_type_id = ?
		ORDER BY position
	`, productTypeID)
	if err != nil {
		return nil, fmt.Errorf("query sizes for %q: %w", productTypeID, err)
	}
	defer rows.Close()

	sizes := make([]SizeOption, 0)
	for rows.Next() {
		var s SizeOption
		if err := rows.Scan(&s.ID, &s.Multiplier); err != nil {
			return nil, fmt.Errorf("scan size for %q: %w", productTypeID, err)
		}
		sizes = append(sizes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sizes for %q: %w", productTypeID, err)
	}

	return sizes, nil
}

func loadTypeMaterials(db *sql.DB, productTypeID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT material_id
		FROM product_type_materials
		WHERE product_type_id = ?
		ORDER BY position
	`, productTypeID)
	if err != nil {
		return nil, fmt.Errorf("query materials for %q: %w", productTypeID, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan material id for %q: %w", productTypeID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material ids for %q: %w", productTypeID, err)
	}

	return ids, nil
}

func loadProviders(db *sql.DB) ([]Provider, error) {
	rows, err := db.Query(`
		SELECT id, name, commission_rate, COALESCE(shipping_time, '')
		FROM providers
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()

	providers := make([]Provider, 0)
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.CommissionRate, &p.ShippingTime); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}

	return providers, nil
}
