package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/database"
	log "github.com/bisegni/rowkit/pkg/logging"
	"github.com/bisegni/rowkit/pkg/plan"
	"github.com/bisegni/rowkit/pkg/sequence"
	"github.com/bisegni/rowkit/pkg/wrap"
)

// Executor drains query plans into a JSON lines writer
type Executor struct {
	Pretty bool
	// DBNulls writes absent values as database nulls.
	DBNulls bool
	// Trace logs every cursor call at debug level.
	Trace bool
	// Progress logs a line every Progress rows of a result set when positive.
	Progress int
}

func NewExecutor() *Executor {
	return &Executor{
		Pretty: false,
	}
}

// Stats summarizes an execution.
type Stats struct {
	Rows       int
	ResultSets int
}

// Execute opens the plan and writes every row of every result set to w.
func (e *Executor) Execute(node plan.Node, w io.Writer) (Stats, error) {
	c, err := node.Open()
	if err != nil {
		return Stats{}, err
	}
	return e.Drain(c, w)
}

// Drain writes every row of every result set of c to w, one JSON object
// per row with keys in column order, and closes c.
func (e *Executor) Drain(c cursor.Cursor, w io.Writer) (stats Stats, err error) {
	var actions *sequence.Pull[func(cursor.Cursor)]
	if e.DBNulls {
		c = wrap.NilToDBNulls(c)
	}
	if e.Progress > 0 {
		actions = e.progressActions()
		c = wrap.Inject(c, actions)
	}
	if e.Trace {
		c = wrap.Trace(c, wrap.TraceLogger(log.Logger))
	}

	defer func() {
		if cerr := c.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
		if actions != nil {
			actions.Close()
		}
	}()

	// Stream results as JSONL
	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}

	for {
		stats.ResultSets++
		for c.Next() {
			row, err := database.RowOf(c)
			if err != nil {
				return stats, fmt.Errorf("row %d: %w", stats.Rows+1, err)
			}
			if err := encoder.Encode(row); err != nil {
				return stats, err
			}
			stats.Rows++
		}
		if err := c.Err(); err != nil {
			return stats, err
		}
		if !c.NextResultSet() {
			break
		}
	}
	if err := c.Err(); err != nil {
		return stats, err
	}

	log.Debug().Int("rows", stats.Rows).Int("result_sets", stats.ResultSets).Msg("execution finished")
	return stats, nil
}

// progressActions yields one action per result set, each counting the rows
// of its own result set.
func (e *Executor) progressActions() *sequence.Pull[func(cursor.Cursor)] {
	every := e.Progress
	return sequence.FromSeq(func(yield func(func(cursor.Cursor)) bool) {
		for set := 1; ; set++ {
			rows := 0
			action := func(cursor.Cursor) {
				rows++
				if rows%every == 0 {
					log.Info().Int("result_set", set).Str("rows", humanize.Comma(int64(rows))).Msg("progress")
				}
			}
			if !yield(action) {
				return
			}
		}
	})
}
