package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "helene",
	Short: "Hélène, a perimenopause wellness companion",
	Long: `Hélène answers wellness questions with the context of your recent
check-ins and profile. Run "helene serve" to start the local API, then use
the other commands to talk to it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Version = version

	rootCmd.AddCommand(serveCmd, stopCmd, statusCmd)
	rootCmd.AddCommand(askCmd, summaryCmd, checkinCmd, logsCmd, profileCmd, insightsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
