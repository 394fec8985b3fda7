package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/menu"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the menu configuration with the content files",
	Long: `Lists menu entries whose Markdown file does not exist and Markdown files
that no menu entry points at. Requires a local source directory.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()

	found, err := v.contentFiles()
	if err != nil {
		return err
	}

	tree := v.builder(cmd.Context()).Build()
	report := menu.Check(tree, found)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d sections, %d files on disk\n", len(tree.Sections), len(found))
	if report.OK() {
		fmt.Fprintln(out, "Menu and content agree.")
		return nil
	}

	if len(report.Missing) > 0 {
		fmt.Fprintln(out, "\nConfigured but missing:")
		for _, e := range report.Missing {
			fmt.Fprintf(out, "  %s (%s)\n", e.FilePath, e.ID)
		}
	}
	if len(report.Unlisted) > 0 {
		fmt.Fprintln(out, "\nNot in the menu:")
		for _, p := range report.Unlisted {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return fmt.Errorf("%d missing, %d not in the menu", len(report.Missing), len(report.Unlisted))
}
