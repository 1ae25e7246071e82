package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zorbn/mscript/internal/errors"
	"github.com/Zorbn/mscript/pkg/mscript"
	"github.com/Zorbn/mscript/pkg/token"
)

var (
	evalExpr string
	maxSteps int
	randSeed int64
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an mscript file or expression",
	Long: `Execute an mscript program from a file or inline expression.

Examples:
  # Run a script file
  mscript run script.ms

  # Evaluate an inline expression
  mscript run -e " w \"Hello, world\""

  # Bound a possibly non-terminating script
  mscript run --max-steps 100000 script.ms`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "halt after this many steps: commands and for-loop iterations (0 = unlimited)")
	runCmd.Flags().Int64Var(&randSeed, "seed", 1, "seed for $random")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	engine, err := mscript.New(
		mscript.WithMaxSteps(maxSteps),
		mscript.WithRandSeed(randSeed),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	result := engine.Eval(input)
	logrus.WithFields(logrus.Fields{
		"file":     filename,
		"duration": time.Since(start),
		"errors":   len(result.Errors),
	}).Debug("evaluation finished")

	fmt.Print(result.Output)
	if result.Output != "" {
		fmt.Println()
	}

	if len(result.Errors) > 0 {
		diags := make([]*errors.Diagnostic, 0, len(result.Errors))
		for _, d := range result.Errors {
			diags = append(diags, errors.New(token.Position{Line: d.Line, Column: d.Column}, d.Message, input))
		}
		fmt.Fprintln(os.Stderr, errors.FormatAll(diags, true))
		return fmt.Errorf("evaluation failed with %d error(s)", len(result.Errors))
	}

	return nil
}
