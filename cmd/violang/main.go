// Command violang is the CLI front-end: vio-vm -e <expression> or vio-vm
// -f <path>, per spec.md §6.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vio-lang/violang/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "vio-vm",
		Short:   "Compile and run Violang bytecode",
		Version: version,
		RunE:    runEval,

		// Unknown arguments and flags are accepted so that they fall
		// through to runEval, which prints the help banner.
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	rootCmd.Flags().StringP("eval", "e", "", "Expression to evaluate")
	rootCmd.Flags().StringP("file", "f", "", "Path to a Violang source file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored disassembly output")
	rootCmd.PersistentFlags().Bool("strict-gc", false, "Verify GC invariants after every collection cycle")

	if err := viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color")); err != nil {
		fatal(err)
	}
	if err := viper.BindPFlag("strict-gc", rootCmd.PersistentFlags().Lookup("strict-gc")); err != nil {
		fatal(err)
	}

	rootCmd.AddCommand(newDisCmd())

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

// loadConfig layers ~/.violang.yaml (if present) under the two flags every
// subcommand shares.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if viper.GetBool("no-color") {
		cfg.NoColor = true
	}
	if viper.GetBool("strict-gc") {
		cfg.StrictGC = true
	}
	return cfg
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)
}
