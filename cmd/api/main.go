// @title Nephra Review API
// @version 1.0
// @description Application review and progress tracking.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "nephra-api",
		Short:        "Application review API",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCommand(), migrateCommand(), tokenCommand())
	return rootCmd
}
