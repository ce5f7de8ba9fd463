package seed

import (
	"database/sql"
	"fmt"

	"github.com/fotomarket/printcore/internal/catalog"
)

// Default catalog for the photography marketplace. Seeded once; the admin
// backend owns any later edits, so existing rows are never overwritten.
var defaultProductTypes = []catalog.ProductType{
	{
		ID:        "canvas",
		Name:      "Canvas",
		BasePrice: 89.90,
		Sizes: []catalog.SizeOption{
			{ID: "30x40", Multiplier: 1.0},
			{ID: "60x80", Multiplier: 1.8},
			{ID: "90x120", Multiplier: 2.6},
		},
		MaterialIDs: []string{"matte", "glossy", "fine-art"},
	},
	{
		ID:        "poster",
		Name:      "Poster",
		BasePrice: 29.90,
		Sizes: []catalog.SizeOption{
			{ID: "20x30", Multiplier: 1.0},
			{ID: "30x45", Multiplier: 1.4},
			{ID: "60x90", Multiplier: 2.2},
		},
		MaterialIDs: []string{"matte", "glossy"},
	},
	{
		ID:        "mug",
		Name:      "Caneca",
		BasePrice: 39.90,
		Sizes: []catalog.SizeOption{
			{ID: "325ml", Multiplier: 1.0},
			{ID: "450ml", Multiplier: 1.2},
		},
		MaterialIDs: []string{"glossy"},
	},
	{
		ID:        "tshirt",
		Name:      "Camiseta",
		BasePrice: 59.90,
		Sizes: []catalog.SizeOption{
			{ID: "P", Multiplier: 1.0},
			{ID: "M", Multiplier: 1.0},
			{ID: "G", Multiplier: 1.1},
			{ID: "GG", Multiplier: 1.2},
		},
		MaterialIDs: []string{"premium-cotton"},
	},
}

var defaultMaterials = []catalog.MaterialOption{
	{ID: "matte", Name: "Acabamento fosco", Surcharge: 0},
	{ID: "glossy", Name: "Acabamento brilhante", Surcharge: 2.50},
	{ID: "fine-art", Name: "Papel fine art", Surcharge: 12.00},
	{ID: "premium-cotton", Name: "Algodão premium", Surcharge: 6.00},
}

var defaultProviders = []catalog.Provider{
	{ID: "printlab", Name: "PrintLab", CommissionRate: 0.20, ShippingTime: "5-8 dias úteis"},
	{ID: "fastprint", Name: "FastPrint", CommissionRate: 0.12, ShippingTime: "2-4 dias úteis"},
	{ID: "atelier", Name: "Ateliê Local", CommissionRate: 0.30, ShippingTime: "7-12 dias úteis"},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run seeds the default catalog in an idempotent way: rows already present
// are left alone, everything happens in one transaction.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureMaterials(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureProductTypes(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureProviders(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterials(tx *sql.Tx, stats *Stats) error {
	for _, m := range defaultMaterials {
		inserted, err := insertIfAbsent(tx,
			`SELECT EXISTS(SELECT 1 FROM materials WHERE id = ?)`,
			`INSERT INTO materials (id, name, surcharge) VALUES (?, ?, ?)`,
			m.ID, m.ID, m.Name, m.Surcharge)
		if err != nil {
			return fmt.Errorf("seed material %q: %w", m.ID, err)
		}
		if inserted {
			stats.Inserts++
		}
	}
	return nil
}

func ensureProductTypes(tx *sql.Tx, stats *Stats) error {
	for _, pt := range defaultProductTypes {
		inserted, err := insertIfAbsent(tx,
			`SELECT EXISTS(SELECT 1 FROM product_types WHERE id = ?)`,
			`INSERT INTO product_types (id, name, base_price) VALUES (?, ?, ?)`,
			pt.ID, pt.ID, pt.Name, pt.BasePrice)
		if err != nil {
			return fmt.Errorf("seed product type %q: %w", pt.ID, err)
		}
		if !inserted {
			continue
		}
		stats.Inserts++

		for i, s := range pt.Sizes {
			if _, err := tx.Exec(`
				INSERT INTO product_sizes (product_type_id, size_id, multiplier, position)
				VALUES (?, ?, ?, ?)
			`, pt.ID, s.ID, s.Multiplier, i); err != nil {
				return fmt.Errorf("seed size %q for %q: %w", s.ID, pt.ID, err)
			}
			stats.Inserts++
		}

		for i, mid := range pt.MaterialIDs {
			if _, err := tx.Exec(`
				INSERT INTO product_type_materials (product_type_id, material_id, position)
				VALUES (?, ?, ?)
			`, pt.ID, mid, i); err != nil {
				return fmt.Errorf("seed material link %q for %q: %w", mid, pt.ID, err)
			}
			stats.Inserts++
		}
	}
	return nil
}

func ensureProviders(tx *sql.Tx, stats *Stats) error {
	for i, p := range defaultProviders {
		inserted, err := insertIfAbsent(tx,
			`SELECT EXISTS(SELECT 1 FROM providers WHERE id = ?)`,
			`INSERT INTO providers (id, name, commission_rate, shipping_time, position) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.ID, p.Name, p.CommissionRate, p.ShippingTime, i)
		if err != nil {
			return fmt.Errorf("seed provider %q: %w", p.ID, err)
		}
		if inserted {
			stats.Inserts++
		}
	}
	return nil
}

func insertIfAbsent(tx *sql.Tx, existsQuery, insertQuery string, existsArg any, insertArgs ...any) (bool, error) {
	var exists bool
	if err := tx.QueryRow(existsQuery, existsArg).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existence: %w", err)
	}
	if exists {
		return false, nil
	}
	if _, err := tx.Exec(insertQuery, insertArgs...); err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	return true, nil
}
