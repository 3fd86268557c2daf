package main

import (
	"fmt"
	"os"

	"github.com/VishNikhil12/Us-Visa-Approval-Prediction/pkg/uvconfig"
	"github.com/function61/gokit/dynversion"
	"github.com/function61/gokit/jsonfile"
	"github.com/spf13/cobra"
)

func main() {
	app := &cobra.Command{
		Use:     os.Args[0],
		Short:   "Storage tooling for the US visa approval prediction pipeline",
		Version: dynversion.Version,
	}

	app.AddCommand(configEntry())
	app.AddCommand(storageEntry())

	exitIfError(app.Execute())
}

func configEntry() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Commands related to the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "example",
		Short: "Shows you an example config file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exitIfError(jsonfile.Marshal(os.Stdout, uvconfig.ExampleConfig()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validates your config file (from stdin)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exitIfError(jsonfile.Unmarshal(os.Stdin, &uvconfig.Config{}, true))
		},
	})

	return cmd
}

func exitIfError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
