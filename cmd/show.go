package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/walker"
)

var showCmd = &cobra.Command{
	Use:   "show <path|entry-id>",
	Short: "Print a content file in the terminal",
	Long: `Renders a content file for the terminal. The argument is either a
source-relative path or a menu entry id such as llm-intro.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("style", "auto", "glamour style: auto, dark, light, notty, dracula, pink or a JSON style file")
	showCmd.Flags().Int("width", 100, "word wrap width")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()

	ctx := cmd.Context()
	p := args[0]
	if !walker.IsMarkdown(p) {
		tree := v.builder(ctx).GenerateMenuData(ctx)
		_, e := tree.Entry(p)
		if e == nil {
			return fmt.Errorf("no menu entry %q", p)
		}
		p = e.FilePath
	}

	text, err := v.cached.Fetch(ctx, p)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", p, err)
	}

	style, _ := cmd.Flags().GetString("style")
	width, _ := cmd.Flags().GetInt("width")
	out, err := renderTerminal(text, width, style)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", p, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func renderTerminal(raw string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}

	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "dark", "light", "notty", "dracula", "pink":
		opts = append(opts, glamour.WithStylePath(style))
	default:
		if _, err := os.Stat(style); err == nil {
			opts = append(opts, glamour.WithStylesFromJSONFile(style))
		} else {
			opts = append(opts, glamour.WithAutoStyle())
		}
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(raw)
}
