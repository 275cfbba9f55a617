// cmd/cli/run.go – Cobra CLI glue for the gas-metered evaluator.
//
// Running an algorithm has no origin-authorization check by design (see
// core/evaluator.go): any caller may execute any stored algorithm against
// any acquirer's attestations. Because this CLI is a convenient,
// unauthenticated entry point onto that unrestricted read path, it guards
// its own invocation rate with a token bucket, a CLI-layer precaution, not
// a change to the core's semantics.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	core "credentialvm/core"
)

// runLimiter bounds how often this process will accept `run` invocations.
var runLimiter = rate.NewLimiter(rate.Limit(20), 5)

type runController struct{}

func (runController) run(algoID uint64, issuerHash core.Hash, account core.AcquirerAddress, currentBlock uint64) (int64, error) {
	app, err := requireApp()
	if err != nil {
		return 0, err
	}
	return app.Evaluator.Run(algoID, issuerHash, account, currentBlock)
}

var runCmd = &cobra.Command{
	Use:   "run [algo-id] [issuer-hash] [acquirer] [block]",
	Short: "Execute a saved algorithm against an acquirer's attestations",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !runLimiter.Allow() {
			return fmt.Errorf("run rate limit exceeded, try again shortly")
		}
		algoID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid algorithm id: %w", err)
		}
		issuerHash, err := parseHash(args[1])
		if err != nil {
			return err
		}
		account, err := core.ParseAcquirerAddress([]byte(args[2]))
		if err != nil {
			return err
		}
		block, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
		ctrl := runController{}
		result, err := ctrl.run(algoID, issuerHash, account, block)
		if err != nil {
			return err
		}
		fmt.Printf("result: %d\n", result)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
}
