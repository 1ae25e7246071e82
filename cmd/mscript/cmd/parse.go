package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/Zorbn/mscript/internal/errors"
	"github.com/Zorbn/mscript/pkg/mscript"
	"github.com/Zorbn/mscript/pkg/token"
)

var dumpTree bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an mscript file and print the AST",
	Long: `Parse an mscript program without executing it.

By default the AST is rendered back as source-like text; --tree dumps the
full node structure.

Examples:
  # Check a script for syntax errors
  mscript parse script.ms

  # Dump the node structure
  mscript parse --tree script.ms`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&dumpTree, "tree", false, "dump the full AST node structure")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	engine, err := mscript.New()
	if err != nil {
		return err
	}
	routine, diags := engine.Parse(input)

	if dumpTree {
		repr.Println(routine, repr.Indent("  "), repr.OmitEmpty(true))
	} else {
		fmt.Println(routine.String())
	}

	if len(diags) > 0 {
		rendered := make([]*errors.Diagnostic, 0, len(diags))
		for _, d := range diags {
			rendered = append(rendered, errors.New(token.Position{Line: d.Line, Column: d.Column}, d.Message, input))
		}
		fmt.Fprintln(os.Stderr, errors.FormatAll(rendered, true))
		return fmt.Errorf("parsing produced %d error(s)", len(diags))
	}
	return nil
}
