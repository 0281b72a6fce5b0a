package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vio-lang/violang"
	"github.com/vio-lang/violang/dis"
)

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis",
		Short: "Disassemble a Violang program without running it",
		RunE:  runDis,
	}
	cmd.Flags().StringP("eval", "e", "", "Expression to disassemble")
	cmd.Flags().StringP("file", "f", "", "Path to a Violang source file")
	cmd.Flags().Bool("json", false, "Emit structured JSON instead of a flat listing")
	return cmd
}

func runDis(cmd *cobra.Command, args []string) error {
	eFlag := cmd.Flags().Lookup("eval")
	fFlag := cmd.Flags().Lookup("file")
	if !eFlag.Changed && !fFlag.Changed {
		return cmd.Help()
	}

	source, err := getSource(cmd)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	machine := violang.NewVM(cfg, newLogger())

	code, err := machine.Compile(source)
	if err != nil {
		fatal(err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := dis.JSON(code)
		if err != nil {
			fatal(err)
		}
		fmt.Println(out)
		return nil
	}

	useColor := dis.UseColor(os.Stdout, cfg.NoColor)
	return dis.Write(os.Stdout, code, useColor)
}
