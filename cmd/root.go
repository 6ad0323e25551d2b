package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bisegni/rowkit/pkg/database"
	"github.com/bisegni/rowkit/pkg/engine"
	log "github.com/bisegni/rowkit/pkg/logging"
	"github.com/bisegni/rowkit/pkg/parser"
	"github.com/bisegni/rowkit/pkg/plan"
	"github.com/bisegni/rowkit/pkg/planner"
	"github.com/bisegni/rowkit/pkg/query"
)

var (
	QueryText       string
	QueryPretty     bool
	QueryExplain    bool
	QueryExtend     []string
	QueryRowNumber  string
	QueryDBNulls    bool
	QueryTrace      bool
	QueryProgress   int
	LogLevel        string
	InteractiveMode bool
)

var rootCmd = &cobra.Command{
	Use:   "rowkit [file|JSON|-]...",
	Short: "Query JSON and JSONL files as tables",
	Long: `rowkit runs a SELECT query over one or more JSON or JSONL inputs.
Every input is a table and produces its own result set. Rows are written
as JSON lines in column order.

Supports:
  - File paths: rowkit data.json other.jsonl
  - Stdin: cat data.json | rowkit  (or use "-" as filename)
  - Inline JSON: rowkit '{"name":"Alice"}'

Examples:
  rowkit data.jsonl -q "SELECT name, UPPER(city) AS city WHERE age >= 18"
  rowkit a.json b.json -q "SELECT *" --row-number n
  rowkit data.json -q "SELECT id" --extend "label=CONCAT('id-', id)"
  rowkit data.json -q "SELECT id WHERE tags CONTAINS 'go'" --explain`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Configure(os.Stderr, LogLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, ok := resolveInputs(args)
		if !ok {
			return cmd.Help()
		}

		if InteractiveMode {
			return RunInteractive(inputs)
		}

		catalog := catalogOf(inputs)
		node, err := buildPlan(QueryText, catalog)
		if err != nil {
			return err
		}
		if QueryExplain {
			fmt.Fprint(cmd.OutOrStdout(), plan.FormatPlan(node))
			return nil
		}
		_, err = newExecutor().Execute(node, cmd.OutOrStdout())
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&QueryText, "query", "q", "SELECT *", "Query to run (SELECT items [WHERE condition])")
	rootCmd.PersistentFlags().BoolVar(&QueryPretty, "pretty", false, "Pretty print output")
	rootCmd.PersistentFlags().StringArrayVar(&QueryExtend, "extend", []string{}, "Computed column appended to every row (name=expression), repeatable")
	rootCmd.PersistentFlags().StringVar(&QueryRowNumber, "row-number", "", "Append a 1-based row number column with this name")
	rootCmd.PersistentFlags().BoolVar(&QueryDBNulls, "db-nulls", false, "Report absent values as database nulls")
	rootCmd.PersistentFlags().BoolVar(&QueryTrace, "trace", false, "Log every cursor call at debug level")
	rootCmd.PersistentFlags().IntVar(&QueryProgress, "progress", 0, "Log progress every N rows of a result set")
	rootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level on stderr (trace, debug, info, warn, error), empty to disable")
	rootCmd.Flags().BoolVar(&QueryExplain, "explain", false, "Print the execution plan instead of running it")
	rootCmd.Flags().BoolVarP(&InteractiveMode, "interactive", "i", false, "Interactive REPL mode")

	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
}

// resolveInputs falls back to stdin when no input is named and data is
// being piped in.
func resolveInputs(args []string) ([]string, bool) {
	if len(args) > 0 {
		return args, true
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, false
	}
	return []string{"-"}, true
}

// tableName names the table behind the input at position i.
func tableName(i int, input string) string {
	switch {
	case input == "-" || input == "":
		return "stdin"
	case parser.IsInline(input):
		return fmt.Sprintf("inline%d", i+1)
	default:
		return input
	}
}

// catalogOf registers one table per input. An input named more than once
// gets its position appended so that every input keeps its own result set.
func catalogOf(inputs []string) *database.Catalog {
	catalog := database.NewCatalog()
	for i, input := range inputs {
		name := tableName(i, input)
		if _, err := catalog.GetTable(name); err == nil {
			name = fmt.Sprintf("%s#%d", name, i+1)
		}
		catalog.RegisterTable(database.NewJSONTable(name, input))
	}
	return catalog
}

func buildPlan(sql string, catalog *database.Catalog) (plan.Node, error) {
	q, err := query.ParseQuery(sql)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	opts := planner.Options{RowNumber: QueryRowNumber}
	for _, def := range QueryExtend {
		col, err := planner.ParseExtend(def)
		if err != nil {
			return nil, err
		}
		opts.Extend = append(opts.Extend, col)
	}

	node, err := planner.CreatePlan(q, catalog.Tables(), opts)
	if err != nil {
		return nil, fmt.Errorf("planning error: %w", err)
	}
	return node, nil
}

func newExecutor() *engine.Executor {
	executor := engine.NewExecutor()
	executor.Pretty = QueryPretty
	executor.DBNulls = QueryDBNulls
	executor.Trace = QueryTrace
	executor.Progress = QueryProgress
	return executor
}
