package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE classes the order and inventory paths care about.
const (
	sqlStateUnique        = "23505"
	sqlStateForeignKey    = "23503"
	sqlStateCheck         = "23514"
	sqlStateDeadlock      = "40P01"
	sqlStateSerialization = "40001"
)

// DBFault is the database side of a failure, taken from whichever Postgres
// driver produced it.
type DBFault struct {
	SQLState   string
	Kind       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

// Report is the log view of an error. The typed code and details come from
// the outermost *Error in the chain.
type Report struct {
	Message   string
	Code      Code
	Details   any
	Retryable bool
	Chain     []string
	DB        *DBFault
}

// Inspect builds a Report for err. A nil error yields the zero Report.
func Inspect(err error) Report {
	if err == nil {
		return Report{}
	}

	rep := Report{Message: err.Error()}
	if typed := As(err); typed != nil {
		rep.Code = typed.Code()
		rep.Details = typed.Details()
		rep.Retryable = MetadataFor(typed.Code()).Retryable
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		rep.Chain = append(rep.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	rep.DB = dbFault(err)
	if rep.DB != nil && (rep.DB.Kind == "deadlock" || rep.DB.Kind == "serialization") {
		rep.Retryable = true
	}
	return rep
}

// Fields flattens the report for structured logging.
func (r Report) Fields() map[string]any {
	fields := map[string]any{
		"error":       r.Message,
		"error_chain": r.Chain,
	}
	if r.Code != "" {
		fields["error_code"] = r.Code
		fields["retryable"] = r.Retryable
	}
	if r.Details != nil {
		fields["error_details"] = r.Details
	}
	if r.DB != nil {
		fields["db_sqlstate"] = r.DB.SQLState
		if r.DB.Kind != "" {
			fields["db_fault"] = r.DB.Kind
		}
		if r.DB.Constraint != "" {
			fields["db_constraint"] = r.DB.Constraint
		}
		if r.DB.Table != "" {
			fields["db_table"] = r.DB.Table
		}
		if r.DB.Column != "" {
			fields["db_column"] = r.DB.Column
		}
		if r.DB.Detail != "" {
			fields["db_detail"] = r.DB.Detail
		}
	}
	return fields
}

func dbFault(err error) *DBFault {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBFault{
			SQLState:   pgxErr.Code,
			Kind:       faultKind(pgxErr.Code),
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBFault{
			SQLState:   string(pqErr.Code),
			Kind:       faultKind(string(pqErr.Code)),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}

func faultKind(state string) string {
	switch state {
	case sqlStateUnique:
		return "unique"
	case sqlStateForeignKey:
		return "foreign_key"
	case sqlStateCheck:
		return "check"
	case sqlStateDeadlock:
		return "deadlock"
	case sqlStateSerialization:
		return "serialization"
	}
	return ""
}
