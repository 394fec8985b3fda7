package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/menu"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search file and heading titles",
	Long: `Matches the query against the titles in the menu. Headings are only
searched for files whose headings have been resolved; pass --deep to
resolve every file first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 10, "maximum number of results")
	searchCmd.Flags().Bool("deep", false, "resolve the headings of every file before searching")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()

	ctx := cmd.Context()
	b := v.builder(ctx)
	tree := b.GenerateMenuData(ctx)

	if deep, _ := cmd.Flags().GetBool("deep"); deep {
		for _, s := range tree.Sections {
			for _, e := range s.Entries {
				b.Resolve(ctx, tree, e)
			}
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	results := menu.Search(tree, strings.Join(args, " "), limit)
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tENTRY\tHEADING\tFILE")
	for _, r := range results {
		heading := r.HeadingID
		if heading == "" {
			heading = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Title, r.EntryID, heading, r.FilePath)
	}
	return w.Flush()
}
