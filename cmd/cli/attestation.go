// cmd/cli/attestation.go – Cobra CLI glue for the attestation store (C4/C5).
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	core "credentialvm/core"
)

type attestationController struct{}

func (attestationController) attest(origin core.Principal, issuerHash, schemaHash core.Hash, account core.AcquirerAddress, raw [][]byte, currentBlock uint64) (uint32, error) {
	app, err := requireApp()
	if err != nil {
		return 0, err
	}
	return app.Attestations.Attest(origin, issuerHash, schemaHash, account, raw, currentBlock)
}

func (attestationController) update(origin core.Principal, issuerHash, schemaHash core.Hash, account core.AcquirerAddress, index uint32, raw [][]byte, currentBlock uint64) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	return app.Attestations.UpdateAttestation(origin, issuerHash, schemaHash, account, index, raw, currentBlock)
}

func (attestationController) get(issuerHash, schemaHash core.Hash, account core.AcquirerAddress, index uint32) (core.Attestation, error) {
	app, err := requireApp()
	if err != nil {
		return nil, err
	}
	return app.Attestations.Get(account, issuerHash, schemaHash, index)
}

var attestationCmd = &cobra.Command{
	Use:   "attestation",
	Short: "Attestation store operations",
}

var attestCmd = &cobra.Command{
	Use:   "attest [origin-hex] [issuer-hash] [schema-hash] [acquirer] [block] [v1,v2,...]",
	Short: "Append a new attestation (origin must be an issuer controller)",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		issuerHash, err := parseHash(args[1])
		if err != nil {
			return err
		}
		schemaHash, err := parseHash(args[2])
		if err != nil {
			return err
		}
		account, err := core.ParseAcquirerAddress([]byte(args[3]))
		if err != nil {
			return err
		}
		block, err := strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
		raw, err := parseValueList(args[5])
		if err != nil {
			return err
		}
		ctrl := attestationController{}
		idx, err := ctrl.attest(origin, issuerHash, schemaHash, account, raw, block)
		if err != nil {
			return err
		}
		fmt.Printf("attestation_index: %d\n", idx)
		return nil
	},
}

var updateAttestationCmd = &cobra.Command{
	Use:   "update [origin-hex] [issuer-hash] [schema-hash] [acquirer] [index] [block] [v1,v2,...]",
	Short: "Overwrite an existing attestation by index",
	Args:  cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		issuerHash, err := parseHash(args[1])
		if err != nil {
			return err
		}
		schemaHash, err := parseHash(args[2])
		if err != nil {
			return err
		}
		account, err := core.ParseAcquirerAddress([]byte(args[3]))
		if err != nil {
			return err
		}
		index, err := strconv.ParseUint(args[4], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		block, err := strconv.ParseUint(args[5], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
		raw, err := parseValueList(args[6])
		if err != nil {
			return err
		}
		ctrl := attestationController{}
		if err := ctrl.update(origin, issuerHash, schemaHash, account, uint32(index), raw, block); err != nil {
			return err
		}
		fmt.Println("attestation updated")
		return nil
	},
}

var getAttestationCmd = &cobra.Command{
	Use:   "get [issuer-hash] [schema-hash] [acquirer] [index]",
	Short: "Fetch a single attestation by index",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		issuerHash, err := parseHash(args[0])
		if err != nil {
			return err
		}
		schemaHash, err := parseHash(args[1])
		if err != nil {
			return err
		}
		account, err := core.ParseAcquirerAddress([]byte(args[2]))
		if err != nil {
			return err
		}
		index, err := strconv.ParseUint(args[3], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		ctrl := attestationController{}
		att, err := ctrl.get(issuerHash, schemaHash, account, uint32(index))
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(att, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

func init() {
	attestationCmd.AddCommand(attestCmd)
	attestationCmd.AddCommand(updateAttestationCmd)
	attestationCmd.AddCommand(getAttestationCmd)
	RootCmd.AddCommand(attestationCmd)
}
