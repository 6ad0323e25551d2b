package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jzelinskie/stringz"
	"github.com/spf13/cobra"

	"github.com/bisegni/rowkit/pkg/database"
	"github.com/bisegni/rowkit/pkg/parser"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [file|-]...",
	Short: "Show the columns discovered in JSON/JSONL inputs",
	Long: `Display the columns a "SELECT *" query exposes for every input, with the
kind and type tag declared for each one, plus the record count.

Supports:
  - File paths: rowkit schema data.json
  - Stdin: cat data.json | rowkit schema

Examples:
  rowkit schema data.json
  rowkit schema a.json b.jsonl`,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	inputs, ok := resolveInputs(args)
	if !ok {
		return cmd.Help()
	}
	for i, input := range inputs {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := printSchema(cmd.OutOrStdout(), input); err != nil {
			return err
		}
	}
	return nil
}

func printSchema(w io.Writer, filename string) error {
	p, err := parser.NewParser(filename)
	if err != nil {
		return err
	}
	defer p.Close()

	sample, err := p.Peek()
	if err != nil && err != io.EOF {
		return err
	}
	total := 0
	for {
		_, err := p.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", total+1, err)
		}
		total++
	}

	fmt.Fprintf(w, "File: %s\n", displayName(filename))
	fmt.Fprintf(w, "Format: %s\n", getFormat(p.IsJSONL()))
	fmt.Fprintf(w, "Total records: %s\n", humanize.Comma(int64(total)))

	columns := database.Discover(sample)
	if len(columns) == 0 {
		return nil
	}
	width := 0
	for _, col := range columns {
		width = max(width, len(col.Name))
	}
	fmt.Fprintf(w, "\nColumns:\n")
	for _, col := range columns {
		fmt.Fprintf(w, "  %-*s  %-8s %s\n", width, col.Name, col.Kind, col.TypeTag())
	}
	return nil
}

func displayName(filename string) string {
	if filename == "-" {
		return "<stdin>"
	}
	if parser.IsInline(filename) {
		return "<inline>"
	}
	return stringz.DefaultEmpty(filename, "<stdin>")
}

func getFormat(isJSONL bool) string {
	if isJSONL {
		return "JSONL"
	}
	return "JSON"
}
