package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bisegni/rowkit/pkg/plan"
)

var explainCmd = &cobra.Command{
	Use:   "explain [file|JSON|-]...",
	Short: "Print the execution plan of a query",
	Long: `Print the plan tree built for --query without reading any input.

Examples:
  rowkit explain data.json -q "SELECT name WHERE age > 30"
  rowkit explain a.json b.json -q "SELECT *" --row-number n`,
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	inputs, _ := resolveInputs(args)
	node, err := buildPlan(QueryText, catalogOf(inputs))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), plan.FormatPlan(node))
	return nil
}
