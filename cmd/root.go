package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beamcalc",
	Short: "Beam structural analysis service",
	Long: `beamcalc - statically determinate beam analysis over HTTP

Computes support reactions, peak bending moment, bending stress and
mid-span or tip deflection for simply supported and cantilever beams
under a uniformly distributed load, and renders PDF reports with shear
and moment diagrams.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
