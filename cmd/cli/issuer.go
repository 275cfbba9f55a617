// cmd/cli/issuer.go – Cobra CLI glue for issuer registry operations.
// Controller wraps core logic, one var per sub-command, wired to the issuer
// root in init().
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	core "credentialvm/core"
)

type issuerController struct{}

func (issuerController) create(origin core.Principal, name string, controllers []core.Principal) (core.Hash, error) {
	app, err := requireApp()
	if err != nil {
		return core.Hash{}, err
	}
	return app.Issuers.CreateIssuer(origin, []byte(name), controllers)
}

func (issuerController) editControllers(origin core.Principal, issuerHash core.Hash, controllers []core.Principal) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	return app.Issuers.EditControllers(origin, issuerHash, controllers)
}

func (issuerController) get(issuerHash core.Hash) (core.Issuer, error) {
	app, err := requireApp()
	if err != nil {
		return core.Issuer{}, err
	}
	return app.Issuers.Get(issuerHash)
}

var issuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Issuer registry operations",
}

var issuerCreateCmd = &cobra.Command{
	Use:   "create [origin-hex] [name] [controller-hex,...]",
	Short: "Create a new issuer, reserving the registry deposit from origin",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		var controllers []core.Principal
		if len(args) == 3 {
			controllers, err = parsePrincipalList(args[2])
			if err != nil {
				return err
			}
		}
		ctrl := issuerController{}
		hash, err := ctrl.create(origin, args[1], controllers)
		if err != nil {
			return err
		}
		fmt.Printf("issuer_hash: %s\n", hash)
		return nil
	},
}

var issuerEditControllersCmd = &cobra.Command{
	Use:   "edit-controllers [origin-hex] [issuer-hash] [controller-hex,...]",
	Short: "Replace an issuer's controller set wholesale",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		issuerHash, err := parseHash(args[1])
		if err != nil {
			return err
		}
		controllers, err := parsePrincipalList(args[2])
		if err != nil {
			return err
		}
		ctrl := issuerController{}
		if err := ctrl.editControllers(origin, issuerHash, controllers); err != nil {
			return err
		}
		fmt.Println("controllers updated")
		return nil
	},
}

var issuerGetCmd = &cobra.Command{
	Use:   "get [issuer-hash]",
	Short: "Fetch an issuer record by hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issuerHash, err := parseHash(args[0])
		if err != nil {
			return err
		}
		ctrl := issuerController{}
		issuer, err := ctrl.get(issuerHash)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(issuer, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

func init() {
	issuerCmd.AddCommand(issuerCreateCmd)
	issuerCmd.AddCommand(issuerEditControllersCmd)
	issuerCmd.AddCommand(issuerGetCmd)
	RootCmd.AddCommand(issuerCmd)
}
