package cmd

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/progress"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the content cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Fetch every configured file and resolve its headings",
	Long: `Fetches every file of the menu into the cache and stores the menu tree
with all headings resolved, so the first visit to each page is served
from the cache.`,
	RunE: runCacheWarm,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached content and the cached menu tree",
	RunE:  runCacheClear,
}

func init() {
	cacheWarmCmd.Flags().IntP("concurrency", "j", 0, "parallel fetches (overrides max_concurrency)")
	cacheClearCmd.Flags().Bool("menu-only", false, "only drop the cached menu tree")
	cacheCmd.AddCommand(cacheWarmCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()

	ctx := cmd.Context()
	b := v.builder(ctx)
	tree := b.Build()

	var paths []string
	for _, s := range tree.Sections {
		for _, e := range s.Entries {
			paths = append(paths, e.FilePath)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No files configured.")
		return nil
	}

	limit := v.cfg.MaxConcurrency
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		limit = n
	}
	if limit <= 0 {
		limit = 1
	}

	reporter := progress.NewReporter("Warming cache")
	reporter.Start(len(paths))

	var done, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range paths {
		g.Go(func() error {
			if _, err := v.cached.Fetch(gctx, p); err != nil {
				failed.Add(1)
				v.logger.Warn("warming failed", "path", p, "error", err)
			}
			reporter.Update(int(done.Add(1)), p)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	reporter.Finish()

	// Headings come from the cache now; resolving also stores the tree.
	for _, s := range tree.Sections {
		for _, e := range s.Entries {
			b.Resolve(ctx, tree, e)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cached %d of %d files.\n", len(paths)-int(failed.Load()), len(paths))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()

	v.store.Clear(cache.MenuKey)
	if menuOnly, _ := cmd.Flags().GetBool("menu-only"); menuOnly {
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared the menu tree.")
		return nil
	}
	n := v.store.ClearPrefix(cache.ContentPrefix)
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared the menu tree and %d content files.\n", n)
	return nil
}
