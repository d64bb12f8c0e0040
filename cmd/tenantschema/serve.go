package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tordrt/tenantschema"
	"github.com/tordrt/tenantschema/internal/api"
)

var addr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return api.Run(ctx, addr, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config: :8080)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch MODEL",
		Short: "Rebuild the artifacts whenever the model file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, n := artifactSettings(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch(ctx, args[0], &tenantschema.ArtifactOptions{Dir: dir, Workers: n})
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent file writes (default from config)")
	return cmd
}

// watch builds once, then again on every write to path, until ctx is done.
// Build failures are logged and the previous artifacts stay in place.
func watch(ctx context.Context, path string, opts *tenantschema.ArtifactOptions) error {
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Editors often replace the file instead of writing it, so the
	// directory is watched rather than the file.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	rebuild(ctx, path, opts)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			rebuild(ctx, path, opts)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func rebuild(ctx context.Context, path string, opts *tenantschema.ArtifactOptions) {
	m, err := loadModel(path)
	if err != nil {
		log.Error().Err(err).Str("model", path).Msg("model rejected")
		return
	}
	if err := tenantschema.WriteArtifacts(ctx, m, opts); err != nil {
		log.Error().Err(err).Str("dir", opts.Dir).Msg("failed to write artifacts")
		return
	}
	log.Info().Str("model", path).Str("dir", opts.Dir).Msg("artifacts written")
}
