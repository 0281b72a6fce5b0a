package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vio-lang/violang"
)

// runEval implements the root command: -e/-f select the source; absent
// (or only unknown) flags print the help banner and exit 0 (spec.md §6).
func runEval(cmd *cobra.Command, args []string) error {
	eFlag := cmd.Flags().Lookup("eval")
	fFlag := cmd.Flags().Lookup("file")
	if !eFlag.Changed && !fFlag.Changed {
		return cmd.Help()
	}

	source, err := getSource(cmd)
	if err != nil {
		return err
	}

	machine := violang.NewVM(loadConfig(), newLogger())

	result, err := machine.Exec(source)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("result = %s\n", result.Repr())
	return nil
}

// getSource resolves -e/-f into program text. A non-existent file yields
// an empty program rather than an error (spec.md §6): "the reader
// concatenates the file buffer plus a trailing newline", which for a
// missing file is just the newline.
func getSource(cmd *cobra.Command) (string, error) {
	if eFlag := cmd.Flags().Lookup("eval"); eFlag.Changed {
		return eFlag.Value.String(), nil
	}

	path, _ := cmd.Flags().GetString("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return "\n", nil
	}
	return string(data) + "\n", nil
}
