// Command credentialvm is the CLI entry point for the verifiable-credential
// and sandboxed-computation subsystem: load configuration, then hand off to
// the cobra command tree assembled in cmd/cli.
package main

import (
	"fmt"
	"os"

	cfg "credentialvm/cmd/config"
	cli "credentialvm/cmd/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "credentialvm: fatal: %v\n", r)
			os.Exit(1)
		}
	}()

	cfg.LoadConfig(os.Getenv("CREDVM_ENV"))

	if err := cli.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
