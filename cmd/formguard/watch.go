package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/metrics"
	"github.com/goliatone/go-formguard/pkg/schedule"
)

var watchFlags struct {
	validateOptions
	metricsAddr string
	debounce    time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate whenever the definition or the values change",
	Long: `Validate once, then again every time the definition or the values file is
written. Bursts of writes are coalesced into one run.

With --metrics-addr the validation and submit metrics are served on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		addr := watchFlags.metricsAddr
		if addr == "" {
			addr = a.cfg.Metrics.Address
		}
		return runWatch(cmd.Context(), a, addr, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.definition, "definition", "d", "", "form definition file (YAML or JSON)")
	watchCmd.Flags().StringVar(&watchFlags.values, "values", "", "JSON object of values keyed by control name")
	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "text", "report format: text, json, yaml, msgpack")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 200*time.Millisecond, "quiet period before re-validating")
}

func runWatch(ctx context.Context, a *app, metricsAddr string, out io.Writer) error {
	if watchFlags.values == "-" {
		return errors.New("watch cannot read values from stdin")
	}
	registry := prometheus.NewRegistry()
	collector := metrics.New(registry, a.cfg.Metrics.Namespace)

	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr, registry, a.logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var mu sync.Mutex
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		rep, err := runValidate(ctx, a, watchFlags.validateOptions, nil, out, form.WithObserver(collector))
		if err != nil {
			a.logger.Error("formguard: validate failed", "error", err)
			return
		}
		a.logger.Info("formguard: validated", "passed", rep.Passed, "failed", len(rep.Failed()))
	}
	run()

	files := []string{watchFlags.definition}
	if watchFlags.values != "" {
		files = append(files, watchFlags.values)
	}
	w, err := newFileWatcher(files, watchFlags.debounce, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Watch(ctx, run)
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("formguard: serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("formguard: metrics server stopped", "error", err)
		}
	}()
	return srv
}

// fileWatcher reports writes to a fixed set of files. It watches their
// directories so that editors replacing a file by rename are still seen.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce *schedule.Debouncer
	logger   *slog.Logger
}

func newFileWatcher(files []string, interval time.Duration, logger *slog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	fw := &fileWatcher{
		watcher:  watcher,
		files:    make(map[string]struct{}, len(files)),
		debounce: schedule.NewDebouncer(interval),
		logger:   logger,
	}
	dirs := make(map[string]struct{})
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("resolve %q: %w", file, err)
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}
	return fw, nil
}

// Watch blocks until ctx is done, calling onChange after each burst of
// writes to the watched files.
func (fw *fileWatcher) Watch(ctx context.Context, onChange func()) error {
	fw.logger.Info("formguard: watching", "files", len(fw.files), "debounce_ms", fw.debounce.Interval().Milliseconds())
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !fw.relevant(event) {
				continue
			}
			fw.logger.Debug("formguard: file event", "path", event.Name, "op", event.Op.String())
			fw.debounce.Trigger(onChange)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("formguard: watcher error", "error", err)
		}
	}
}

func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := fw.files[abs]
	return ok
}

func (fw *fileWatcher) Close() error {
	fw.debounce.Stop()
	return fw.watcher.Close()
}
