package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/memstr/internal/kernel"
	"github.com/hupe1980/memstr/wasmhost"
)

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "Show kernel selection and CPU features",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.LogKernel(cmd.Context(), kernel.ActiveTier().String(), kernel.IsOverridden())

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "tier\t%s\n", kernel.ActiveTier())
		fmt.Fprintf(w, "override\t%v (%s)\n", kernel.IsOverridden(), kernel.EnvOverride)
		fmt.Fprintf(w, "avx2\t%v\n", kernel.HasAVX2())
		fmt.Fprintf(w, "erms\t%v\n", kernel.HasERMS())
		fmt.Fprintf(w, "asimd\t%v\n", kernel.HasASIMD())
		for _, t := range []kernel.Tier{kernel.Generic, kernel.Word, kernel.Bulk} {
			fmt.Fprintf(w, "available %s\t%v\n", t, kernel.Available(t))
		}
		fmt.Fprintf(w, "wasm exports\t%d\n", len(wasmhost.Exports()))
		return w.Flush()
	},
}
