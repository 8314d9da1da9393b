package models

// All lists every persisted model, in dependency order. Used by tests and the
// sqlite dev mode to build the schema without the SQL migrations.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Medicine{},
		&Order{},
		&OrderItem{},
		&Review{},
		&OutboxEvent{},
	}
}
