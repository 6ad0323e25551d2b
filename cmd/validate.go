package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bisegni/rowkit/pkg/parser"
	"github.com/bisegni/rowkit/pkg/query"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|-]...",
	Short: "Validate a query and the syntax of JSON/JSONL inputs",
	Long: `Parse --query and print its normalized form, then check that every
given JSON or JSONL input has correct syntax.

Examples:
  rowkit validate -q "select name where age>=18"
  rowkit validate data.json data.jsonl
  cat data.json | rowkit validate -`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	q, err := query.ParseQuery(QueryText)
	if err != nil {
		fmt.Fprintf(out, "%s query: %v\n", color.RedString("invalid"), err)
		return err
	}
	fmt.Fprintf(out, "%s query: %s\n", color.GreenString("valid"), q)

	for _, filename := range args {
		p, err := parser.NewParser(filename)
		if err != nil {
			return err
		}
		records, err := p.ReadAll()
		p.Close()
		if err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", color.RedString("invalid"), displayName(filename), err)
			return err
		}
		fmt.Fprintf(out, "%s %s file %s with %d record(s)\n",
			color.GreenString("valid"), getFormat(p.IsJSONL()), displayName(filename), len(records))
	}
	return nil
}
