// cmd/cli/algorithm.go – Cobra CLI glue for the algorithm registry.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	core "credentialvm/core"
)

type algorithmController struct{}

func (algorithmController) save(schemaHashes []core.Hash, code []byte, gasLimit uint64) (uint64, error) {
	app, err := requireApp()
	if err != nil {
		return 0, err
	}
	return app.Algorithms.SaveAlgorithm(schemaHashes, code, gasLimit)
}

var algorithmCmd = &cobra.Command{
	Use:   "algorithm",
	Short: "Algorithm registry operations",
}

var algorithmSaveCmd = &cobra.Command{
	Use:   "save [schema-hash,...] [module.wasm] [gas-limit]",
	Short: "Validate and save a WebAssembly module bound to one or more schemas",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaHashes, err := parseHashList(args[0])
		if err != nil {
			return err
		}
		code, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read wasm module: %w", err)
		}
		var gasLimit uint64
		if len(args) == 3 {
			gasLimit, err = strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid gas limit: %w", err)
			}
		}
		ctrl := algorithmController{}
		id, err := ctrl.save(schemaHashes, code, gasLimit)
		if err != nil {
			return err
		}
		fmt.Printf("algorithm_id: %d\n", id)
		return nil
	},
}

func init() {
	algorithmCmd.AddCommand(algorithmSaveCmd)
	RootCmd.AddCommand(algorithmCmd)
}
