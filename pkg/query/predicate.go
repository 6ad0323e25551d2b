package query

import (
	"errors"

	"github.com/bisegni/rowkit/pkg/cursor"
	log "github.com/bisegni/rowkit/pkg/logging"
)

// CursorGetter resolves field paths against the current row of c. column
// maps a path to the column holding it; a nil column uses the path itself.
// Unknown columns read as nil.
func CursorGetter(c cursor.Cursor, column func(field string) string) Getter {
	return func(field string) (interface{}, error) {
		name := field
		if column != nil {
			name = column(field)
		}
		v, err := c.ValueByName(name)
		if errors.Is(err, cursor.ErrUnknownColumn) {
			return nil, nil
		}
		return v, err
	}
}

// Match evaluates expr and treats evaluation errors as a rejected row.
func Match(expr Expression, get Getter) bool {
	ok, err := expr.Evaluate(get)
	if err != nil {
		log.Debug().Err(err).Str("expression", expr.String()).Msg("row rejected by failed evaluation")
		return false
	}
	return ok
}
