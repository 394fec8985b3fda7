package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/server"
	"github.com/ziadkadry99/docview/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation viewer on a local port",
	Long: `Starts the viewer: a shell page, one websocket session per browser tab
and a small API. With a local source and watch enabled, edited files are
reloaded in every open tab.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("open", false, "open the browser after starting")
	serveCmd.Flags().Bool("no-watch", false, "do not watch the source for changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	v, err := openViewer()
	if err != nil {
		return err
	}
	defer v.Close()
	cfg := v.cfg

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if open, _ := cmd.Flags().GetBool("open"); open {
		cfg.Server.Open = true
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	title := "Documentation"
	if abs, err := filepath.Abs(cfg.Source); err == nil && v.files != nil {
		title = filepath.Base(abs)
	}

	opts := []site.Option{
		site.WithLogger(v.logger),
		site.WithTitle(title),
		site.WithDocument(cfg.MenuConfig),
		site.WithContentDir(cfg.ContentDir),
		site.WithBreakpoint(cfg.Layout.Breakpoint),
		site.WithScrollMargin(cfg.Render.ScrollMargin),
	}
	if v.files != nil {
		opts = append(opts, site.WithFiles(v.files))
	}
	s := site.New(v.source, v.cached, v.store, v.pipeline, opts...)

	srv := server.New(server.Config{Port: cfg.Server.Port, AllowAll: cfg.Server.AllowAll}, v.logger)
	s.RegisterRoutes(srv.Router(), srv.Timeout())

	if cfg.Watch && v.files != nil {
		w, err := s.Watch(ctx, cfg.Source)
		if err != nil {
			v.logger.Warn("watching source failed, live reload disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "docview %s serving %s at %s\n", Version, cfg.Source, url)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")
	if cfg.Server.Open {
		go func() {
			if err := site.OpenBrowser(url); err != nil {
				v.logger.Warn("opening browser failed", "error", err)
			}
		}()
	}

	return srv.Start()
}
