package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orecstm/core/registry"
)

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List registered STM variants and show which one ORECSTM_VARIANT selects",
		RunE: func(cmd *cobra.Command, args []string) error {
			newRuntime(0, false) // ensure the default variant is registered

			for _, name := range registry.Names() {
				fmt.Println(name)
			}

			if _, err := registry.Select(); err != nil {
				return err
			}
			want := os.Getenv(registry.EnvVariant)
			if want == "" {
				want = registry.DefaultVariantName
			}
			fmt.Printf("selected: %s\n", want)
			return nil
		},
	}
}
