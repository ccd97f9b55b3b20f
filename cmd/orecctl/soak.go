package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orecstm/core/stm"
	"github.com/orecstm/core/txn"
)

func newSoakCommand() *cobra.Command {
	var (
		accounts    int
		goroutines  int
		rounds      int
		tableSizeL2 int
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Run concurrent random bank transfers and verify the total balance is preserved",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSoak(accounts, goroutines, rounds, tableSizeL2, debug)
		},
	}

	cmd.Flags().IntVar(&accounts, "accounts", 20, "number of accounts")
	cmd.Flags().IntVar(&goroutines, "goroutines", 16, "number of concurrent transfer workers")
	cmd.Flags().IntVar(&rounds, "rounds", 5000, "transfer attempts per worker")
	cmd.Flags().IntVar(&tableSizeL2, "table-size-log2", 0, "orec table size as a power of two (0 = default)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level transaction logging")
	return cmd
}

func runSoak(numAccounts, goroutines, rounds, tableSizeL2 int, debug bool) error {
	rt := newRuntime(tableSizeL2, debug)

	const startBalance = 1000
	accounts := make([]*stm.TVar[int], numAccounts)
	for i := range accounts {
		accounts[i] = stm.NewTVar(startBalance)
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < goroutines; w++ {
		seed := int64(w) + 1
		g.Go(func() error {
			r := rand.New(rand.NewSource(seed))
			d := txn.New()
			for i := 0; i < rounds; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				from, to := r.Intn(numAccounts), r.Intn(numAccounts)
				if from == to {
					continue
				}
				if err := stm.Run(ctx, rt, d, func(d *txn.Descriptor) {
					fromBal := stm.Read(rt, d, accounts[from])
					if fromBal <= 0 {
						return
					}
					amount := 1 + r.Intn(fromBal)
					toBal := stm.Read(rt, d, accounts[to])
					stm.Write(rt, d, accounts[from], fromBal-amount)
					stm.Write(rt, d, accounts[to], toBal+amount)
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("soak: worker failed: %w", err)
	}
	elapsed := time.Since(start)

	total := 0
	for _, a := range accounts {
		var v int
		stm.Atomically(rt, func(d *txn.Descriptor) {
			v = stm.Read(rt, d, a)
		})
		total += v
	}

	want := numAccounts * startBalance
	fmt.Printf("soak: %d accounts, %d workers, %d rounds each, %s elapsed\n", numAccounts, goroutines, rounds, elapsed)
	fmt.Printf("total balance: %d (want %d)\n", total, want)
	if total != want {
		return fmt.Errorf("soak: invariant violated, total balance drifted by %d", total-want)
	}
	return nil
}
