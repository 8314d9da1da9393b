package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCarriesTypedCodeAndDetails(t *testing.T) {
	err := New(CodeInsufficientStock, "not enough stock").
		WithDetails(map[string]any{"medicine_id": "m-1", "available": 2})

	rep := Inspect(fmt.Errorf("place order: %w", err))
	require.Equal(t, CodeInsufficientStock, rep.Code)
	require.Equal(t, map[string]any{"medicine_id": "m-1", "available": 2}, rep.Details)
	assert.False(t, rep.Retryable)
	assert.Nil(t, rep.DB)

	fields := rep.Fields()
	assert.Equal(t, CodeInsufficientStock, fields["error_code"])
	assert.Equal(t, rep.Details, fields["error_details"])
	assert.NotContains(t, fields, "db_sqlstate")
}

func TestInspectClassifiesPgxUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", TableName: "users", Message: "duplicate key"}
	err := Wrap(CodeConflict, fmt.Errorf("insert user: %w", pgErr), "email already registered")

	rep := Inspect(err)
	require.Equal(t, CodeConflict, rep.Code)
	require.NotNil(t, rep.DB)
	assert.Equal(t, "unique", rep.DB.Kind)
	assert.Equal(t, "users_email_key", rep.DB.Constraint)
	assert.Equal(t, "users", rep.DB.Table)
	assert.Len(t, rep.Chain, 3)

	fields := rep.Fields()
	assert.Equal(t, "23505", fields["db_sqlstate"])
	assert.Equal(t, "unique", fields["db_fault"])
}

func TestInspectMarksDeadlockRetryable(t *testing.T) {
	err := Wrap(CodeDependency, fmt.Errorf("lock parent order: %w", &pq.Error{Code: "40P01", Table: "orders"}), "update order status")

	rep := Inspect(err)
	require.NotNil(t, rep.DB)
	assert.Equal(t, "deadlock", rep.DB.Kind)
	assert.True(t, rep.Retryable)
}

func TestInspectStockCheckWithoutTypedError(t *testing.T) {
	err := fmt.Errorf("update stock: %w", &pq.Error{Code: "23514", Constraint: "medicines_stock_check", Table: "medicines"})

	rep := Inspect(err)
	assert.Empty(t, rep.Code)
	require.NotNil(t, rep.DB)
	assert.Equal(t, "check", rep.DB.Kind)
	assert.Equal(t, "medicines_stock_check", rep.DB.Constraint)
	assert.NotContains(t, rep.Fields(), "error_code")
}

func TestInspectNil(t *testing.T) {
	require.Equal(t, Report{}, Inspect(nil))
}
