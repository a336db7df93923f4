// Package preview serves a generated site locally and rebuilds it when
// sources change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// RebuildFunc regenerates the site. changed lists the paths modified since
// the previous rebuild, sorted and without duplicates.
type RebuildFunc func(ctx context.Context, changed []string) error

// Server serves Root and triggers Rebuild when a watched directory changes.
type Server struct {
	Root     string
	Host     string
	Port     int // 0 picks a random port in 8000-8999
	Watch    []string
	Debounce time.Duration
	Rebuild  RebuildFunc
	Metrics  *prom.Registry // optional, served on /metrics
	Log      *logrus.Logger
}

// Address returns the listen address, choosing a random port if none is set.
func (s *Server) Address() string {
	port := s.Port
	if port == 0 {
		port = 8000 + rand.IntN(1000)
	}
	return net.JoinHostPort(s.Host, fmt.Sprint(port))
}

// Handler returns the HTTP handler for the site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.Metrics, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", http.FileServer(http.Dir(s.Root)))
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.Address()
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	for _, dir := range s.Watch {
		if err := addDirsRecursive(watcher, dir); err != nil {
			s.Log.WithError(err).Warnf("not watching %s", dir)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		s.Log.Infof("Serving on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	trigger, stop := s.debouncer(ctx)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			s.Log.Info("Shutting down preview server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err, ok := <-serveErr:
			if ok {
				return err
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ShouldIgnore(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			s.Log.Debugf("File change detected: %s (%s)", ev.Name, ev.Op)
			trigger(ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.Log.WithError(err).Warn("watcher error")
		}
	}
}

// debouncer coalesces change bursts into one rebuild at a time.
func (s *Server) debouncer(ctx context.Context) (trigger func(path string), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer
	pending := make(map[string]struct{})
	requests := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-requests:
				mu.Lock()
				changed := make([]string, 0, len(pending))
				for p := range pending {
					changed = append(changed, p)
				}
				clear(pending)
				mu.Unlock()
				sort.Strings(changed)

				s.Log.Info("Change detected; rebuilding site")
				if err := s.Rebuild(ctx, changed); err != nil {
					s.Log.WithError(err).Warn("rebuild failed")
				}
			}
		}
	}()

	trigger = func(path string) {
		mu.Lock()
		defer mu.Unlock()
		pending[path] = struct{}{}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(s.Debounce, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
	stop = func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		close(done)
	}
	return trigger, stop
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// ShouldIgnore reports whether a change to path is editor or OS noise.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
