package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orecstm/core/stm"
	"github.com/orecstm/core/txn"
)

func newDemoCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a single begin/read/write/commit cycle and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(debug)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level transaction logging")
	return cmd
}

func runDemo(debug bool) error {
	rt := newRuntime(0, debug)

	balance := stm.NewTVar(100)

	stm.Atomically(rt, func(d *txn.Descriptor) {
		cur := stm.Read(rt, d, balance)
		stm.Write(rt, d, balance, cur-30)
	})

	var final int
	stm.Atomically(rt, func(d *txn.Descriptor) {
		final = stm.Read(rt, d, balance)
	})

	fmt.Printf("balance after withdrawal: %d\n", final)
	return nil
}
