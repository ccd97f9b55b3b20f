// Command orecctl drives an OrecEager runtime from the command line: it
// exists for manual soak testing and demonstration rather than as a
// production entry point; its soak command mirrors the in-tree
// bank-transfer test scenario but is reachable without `go test`.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orecstm/core/cm"
	"github.com/orecstm/core/config"
	"github.com/orecstm/core/logger"
	"github.com/orecstm/core/registry"
	"github.com/orecstm/core/stm"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "orecctl",
		Short:   "Drive and soak-test an OrecEager STM runtime",
		Version: version,
	}

	rootCmd.AddCommand(
		newDemoCommand(),
		newSoakCommand(),
		newVariantsCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRuntime(tableSizeLog2 int, debug bool) *stm.Runtime {
	log, ok := logger.Get().(*logger.StdLogger)
	if !ok {
		// orecctl never replaces the process default, so this is unreachable.
		panic("orecctl: process default logger is not a *logger.StdLogger")
	}
	if debug {
		log.EnableDebug()
	}

	cfg := config.DefaultConfig
	if tableSizeLog2 > 0 {
		cfg.TableSizeLog2 = tableSizeLog2
	}

	rt := stm.New(cfg, cm.NewBackoff(), log)
	registry.Register(registry.DefaultVariantName, rt)
	return rt
}
