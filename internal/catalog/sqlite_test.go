package catalog

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newCatalogTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE product_types (id TEXT PRIMARY KEY, name TEXT NOT NULL, base_price REAL NOT NULL);
		CREATE TABLE product_sizes (product_type_id TEXT, size_id TEXT, multiplier REAL NOT NULL, position INTEGER NOT NULL, PRIMARY KEY (product_type_id, size_id));
		CREATE TABLE materials (id TEXT PRIMARY KEY, name TEXT NOT NULL, surcharge REAL NOT NULL);
		CREATE TABLE product_type_materials (product_type_id TEXT, material_id TEXT, position INTEGER NOT NULL, PRIMARY KEY (product_type_id, material_id));
		CREATE TABLE providers (id TEXT PRIMARY KEY, name TEXT NOT NULL, commission_rate REAL NOT NULL, shipping_time TEXT, position INTEGER NOT NULL);
	`)
	require.NoError(t, err)

	return db
}

func TestLoadBuildsCatalogFromDatabase(t *testing.T) {
	db := newCatalogTestDB(t)

	_, err := db.Exec(`
		INSERT INTO materials (id, name, surcharge) VALUES ('matte', 'Fosco', 0), ('glossy', 'Brilhante', 2.5);
		INSERT INTO product_types (id, name, base_price) VALUES ('canvas', 'Canvas', 89.9);
		INSERT INTO product_sizes (product_type_id, size_id, multiplier, position) VALUES
			('canvas', '30x40', 1.0, 0),
			('canvas', '60x80', 1.8, 1);
		INSERT INTO product_type_materials (product_type_id, material_id, position) VALUES
			('canvas', 'matte', 0),
			('canvas', 'glossy', 1);
		INSERT INTO providers (id, name, commission_rate, shipping_time, position) VALUES
			('fastprint', 'FastPrint', 0.12, '2-4 dias úteis', 1),
			('printlab', 'PrintLab', 0.2, '5-8 dias úteis', 0);
	`)
	require.NoError(t, err)

	c, err := Load(db)
	require.NoError(t, err)

	pt, err := c.ProductType("canvas")
	require.NoError(t, err)
	assert.Equal(t, 89.9, pt.BasePrice)
	require.Len(t, pt.Sizes, 2)
	assert.Equal(t, "30x40", pt.Sizes[0].ID)
	assert.Equal(t, []string{"matte", "glossy"}, pt.MaterialIDs)

	multiplier, err := c.SizeMultiplier("canvas", "60x80")
	require.NoError(t, err)
	assert.Equal(t, 1.8, multiplier)

	// Provider order follows the position column, not insertion order.
	providers := c.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "printlab", providers[0].ID)
	assert.Equal(t, "fastprint", providers[1].ID)
}

func TestLoadRejectsInvalidStoredCommission(t *testing.T) {
	db := newCatalogTestDB(t)

	_, err := db.Exec(`
		INSERT INTO providers (id, name, commission_rate, shipping_time, position)
		VALUES ('bad', 'Bad', 1.5, NULL, 0);
	`)
	require.NoError(t, err)

	_, err = Load(db)
	assert.Error(t, err)
}
