package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/leprechaun/internal/digest"
)

// AlgorithmInfo describes one registered algorithm.
type AlgorithmInfo struct {
	Name   string `json:"name"`
	HexLen int    `json:"hex_len"`
}

// NewAlgorithmsCommand creates the algorithms command.
func NewAlgorithmsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "algorithms",
		Short:         "List supported hash algorithms",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []AlgorithmInfo
			for _, name := range digest.Names() {
				alg, err := digest.Lookup(name)
				if err != nil {
					return WrapExitError(ExitFailure, "algorithm registry", err)
				}
				infos = append(infos, AlgorithmInfo{Name: alg.Name(), HexLen: alg.HexLen()})
			}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(infos)
			}
			for _, info := range infos {
				fmt.Fprintf(formatter.Writer, "%-12s %3d hex chars\n", info.Name, info.HexLen)
			}
			return nil
		},
	}
}
