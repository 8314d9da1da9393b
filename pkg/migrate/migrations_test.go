package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medistore/medistore-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := fs.Glob(migrate.Migrations, "migrations/*_"+suffix+".sql")
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected exactly one %s migration", suffix)
	data, err := fs.ReadFile(migrate.Migrations, matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMedicinesMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "create_medicines")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS medicines",
		"CHECK (stock >= 0)",
		"CHECK (price >= 0)",
		"FOREIGN KEY (seller_id) REFERENCES users(id)",
		"DROP TABLE IF EXISTS medicines",
	} {
		require.Contains(t, content, sub)
	}
}

func TestOrdersMigrationShapesParentAndChild(t *testing.T) {
	content := readMigration(t, "create_orders")
	for _, sub := range []string{
		"FOREIGN KEY (parent_order_id) REFERENCES orders(id)",
		"orders_parent_shape_check",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CHECK (quantity >= 1)",
		"DROP TABLE IF EXISTS order_items",
	} {
		require.Contains(t, content, sub)
	}
}

func TestReviewsMigrationIsUniquePerCustomer(t *testing.T) {
	content := readMigration(t, "create_reviews")
	require.Contains(t, content, "UNIQUE (customer_id, medicine_id)")
	require.Contains(t, content, "CHECK (rating BETWEEN 1 AND 5)")
}

func TestEmbeddedMigrationsHaveGooseHeaders(t *testing.T) {
	entries, err := fs.ReadDir(migrate.Migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		data, err := fs.ReadFile(migrate.Migrations, "migrations/"+e.Name())
		require.NoError(t, err)
		require.True(t, strings.Contains(string(data), "-- +goose Up"), e.Name())
		require.True(t, strings.Contains(string(data), "-- +goose Down"), e.Name())
	}
}

func TestValidateEmbedded(t *testing.T) {
	require.NoError(t, migrate.ValidateEmbedded())
	require.NoError(t, migrate.ValidateDir("migrations"))
	require.Error(t, migrate.ValidateDir(""))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "add_stuff.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))
}

func TestValidateDirRequiresGooseHeaders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_noop.sql"), []byte("SELECT 1;\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Medicine Barcode!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_medicine_barcode.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
