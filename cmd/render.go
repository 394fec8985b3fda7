package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/view"
)

var renderCmd = &cobra.Command{
	Use:   "render <path>",
	Short: "Render one content file to an HTML fragment",
	Long: `Fetches a content file through the cache, renders it the way the viewer
does and prints the HTML of the content area. Diagrams are emitted as
Mermaid containers.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("heading", "", "heading id to report as scroll target")
	renderCmd.Flags().StringP("output", "o", "", "write the fragment to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()

	ctx := cmd.Context()
	p := args[0]
	heading, _ := cmd.Flags().GetString("heading")

	buf := view.NewBuffer()
	v.pipeline.Load(ctx, buf, p, v.pipeline.LoadHeadings(ctx, p), heading)
	fragment := buf.HTML(view.ContentArea)

	if scrolls := buf.Scrolls(); len(scrolls) > 0 {
		target := scrolls[len(scrolls)-1].ID
		if target == "" {
			target = "top"
		}
		v.logger.Info("scroll target", "heading", heading, "target", target)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), fragment)
		return nil
	}
	if err := os.WriteFile(output, []byte(fragment+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", output, len(fragment))
	return nil
}
