// cmd/cli/schema.go – Cobra CLI glue for the schema registry.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	core "credentialvm/core"
)

type schemaController struct{}

func (schemaController) create(origin core.Principal, issuerHash core.Hash, fields []core.SchemaField) (core.Hash, error) {
	app, err := requireApp()
	if err != nil {
		return core.Hash{}, err
	}
	return app.Schemas.CreateSchema(origin, issuerHash, fields, nil)
}

func (schemaController) get(schemaHash core.Hash) (core.Schema, error) {
	app, err := requireApp()
	if err != nil {
		return core.Schema{}, err
	}
	return app.Schemas.Get(schemaHash)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema registry operations",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create [origin-hex] [issuer-hash] [name:type,...]",
	Short: "Create a schema bound to an issuer (origin must be a controller)",
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
		fields, err := parseFieldSpec(args[2])
		if err != nil {
			return err
		}
		ctrl := schemaController{}
		hash, err := ctrl.create(origin, issuerHash, fields)
		if err != nil {
			return err
		}
		fmt.Printf("schema_hash: %s\n", hash)
		return nil
	},
}

var schemaGetCmd = &cobra.Command{
	Use:   "get [schema-hash]",
	Short: "Fetch a schema by hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaHash, err := parseHash(args[0])
		if err != nil {
			return err
		}
		ctrl := schemaController{}
		schema, err := ctrl.get(schemaHash)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(schema, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaCreateCmd)
	schemaCmd.AddCommand(schemaGetCmd)
	RootCmd.AddCommand(schemaCmd)
}
