package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/jzelinskie/stringz"

	"github.com/bisegni/rowkit/pkg/database"
	log "github.com/bisegni/rowkit/pkg/logging"
	"github.com/bisegni/rowkit/pkg/plan"
)

// RunInteractive loads every input into memory and runs the queries typed
// at the prompt against them.
func RunInteractive(inputs []string) error {
	if stringz.SliceContains(inputs, "-") {
		// the prompt reads from stdin as well
		return fmt.Errorf("interactive mode cannot read data from stdin, pass a file instead")
	}

	catalog := database.NewCatalog()
	for _, table := range catalogOf(inputs).Tables() {
		mem, err := database.LoadTable(table)
		if err != nil {
			return err
		}
		catalog.RegisterTable(mem)
		log.Debug().Str("table", mem.Name()).Int("records", mem.Len()).Msg("loaded table")
	}

	fmt.Printf("Interactive mode enabled with %d table(s). Type 'exit' or 'quit' to leave, 'tables' to list inputs.\n", catalog.Len())
	fmt.Println("Prefix a query with 'explain' to print its plan.")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "", // In-memory history for this session
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			break
		}

		if err := executeInteractiveQuery(rl.Stdout(), catalog, trimmed); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		}
	}

	return nil
}

func executeInteractiveQuery(w io.Writer, catalog *database.Catalog, input string) error {
	if strings.EqualFold(input, "tables") {
		for _, table := range catalog.Tables() {
			fmt.Fprintln(w, table.Name())
		}
		return nil
	}

	explain := QueryExplain
	if head, rest, ok := strings.Cut(input, " "); ok && strings.EqualFold(head, "explain") {
		explain, input = true, strings.TrimSpace(rest)
	}

	rootNode, err := buildPlan(input, catalog)
	if err != nil {
		return err
	}
	if explain {
		fmt.Fprintln(w, "Execution Plan:")
		fmt.Fprint(w, plan.FormatPlan(rootNode))
		return nil
	}

	stats, err := newExecutor().Execute(rootNode, w)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, color.YellowString("(%d row(s), %d result set(s))", stats.Rows, stats.ResultSets))
	return nil
}
