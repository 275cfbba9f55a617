// cmd/cli/root.go – the ~credentialvm root command and its bootstrap
// middleware: every sub-command under this package shares one
// lazily-initialised App.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	core "credentialvm/core"
	pkgconfig "credentialvm/pkg/config"
)

// RootCmd is the entry point every command file in this package attaches
// its sub-tree to.
var RootCmd = &cobra.Command{
	Use:               "credentialvm",
	Short:             "Verifiable-credential and sandboxed-computation subsystem CLI",
	PersistentPreRunE: ensureAppInitialised,
}

// ensureAppInitialised wires the core.App singleton on first use, standing
// in for the host state-machine's real storage/balance backends in
// standalone CLI mode.
func ensureAppInitialised(cmd *cobra.Command, _ []string) error {
	if core.Current() != nil {
		return nil
	}

	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	if env := viper.GetString("config_env"); env != "" {
		if _, err := pkgconfig.Load(env); err != nil {
			return err
		}
	}

	st := core.NewInMemoryState()
	limits := core.DefaultLimits
	if viper.IsSet("credentials.max_controllers") {
		limits.MaxControllers = viper.GetInt("credentials.max_controllers")
	}
	bus := core.NewLogBus(nil)
	app := core.NewApp(st, st, bus, limits)
	core.InitApp(app)
	zap.L().Sugar().Infow("credentialvm app ready", "max_controllers", limits.MaxControllers)
	return nil
}

func init() {
	RootCmd.PersistentFlags().String("config-env", "", "configuration environment name to merge over default.yaml")
	if err := viper.BindPFlag("config_env", RootCmd.PersistentFlags().Lookup("config-env")); err != nil {
		fmt.Println("warning: could not bind config-env flag:", err)
	}
}
