package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zorbn/mscript/internal/lexer"
)

var showPos bool

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an mscript file or expression",
	Long: `Tokenize an mscript program and print the token grid, one source
line per output block. Useful for debugging how whitespace-significant
source is tokenized.

Examples:
  # Tokenize a script file
  mscript lex script.ms

  # Show token positions
  mscript lex --show-pos script.ms`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New()
	grid := l.Lex(input)

	for num, line := range grid {
		fmt.Printf("line %d:\n", num)
		for _, tok := range line {
			if showPos {
				fmt.Printf("  %-12s %-4s %q\n", tok.Type, tok.Pos, tok.Literal)
			} else {
				fmt.Printf("  %-12s %q\n", tok.Type, tok.Literal)
			}
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("tokenization produced %d error(s)", len(errs))
	}
	return nil
}
