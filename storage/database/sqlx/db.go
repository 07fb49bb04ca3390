package sqlxrepos

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shuletech/shule/core"
)

// trapNoRowsErr converts the driver's missing-row error into the domain error.
func trapNoRowsErr(err, domainErr error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return domainErr
	}
	return err
}

// orderBy renders an ORDER BY clause; fallback applies when no ordering was
// requested. Field names are allowlisted against column names at bind time;
// they are never raw user input.
func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + fallback
	}
	clauses := make([]string, 0, len(ordering))
	for _, o := range ordering {
		clauses = append(clauses, o.String())
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// whereBuilder accumulates AND-ed conditions with positional args.
// Each "?" in a condition is numbered sequentially across the whole query.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(cond string, args ...interface{}) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
