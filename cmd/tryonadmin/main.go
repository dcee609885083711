package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/tryonadmin/internal/cli"
	"github.com/cloo-solutions/tryonadmin/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tryonadmin",
		Short: "Try-on platform admin console",
		Long:  "Admin console for the try-on platform: serve the console, manage businesses and inspect generation logs",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.BusinessCmd())
	rootCmd.AddCommand(admin.LogsCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
