package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docview",
	Short: "Browse Markdown documentation with a configured section menu",
	Long: `docview renders a tree of Markdown files as a navigable documentation
site. A menu configuration document groups files into sections; content
is fetched from a local directory or a web server, cached, and rendered
with formulas, diagrams and highlighted code.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
