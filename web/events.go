package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of filesystem events. Editors and the
// store's atomic rewrites both fire several events per save.
const debounceDelay = 100 * time.Millisecond

// handleSSE handles GET /api/events: a server-sent event stream that
// emits "reload" whenever the ledger changes on disk or through the
// API.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-clientChan:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// broadcast sends a message to every connected SSE client. Slow
// clients with a full buffer are skipped rather than blocked on.
func (s *Server) broadcast(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- msg:
		default:
		}
	}
}

// startWatcher watches the default ledger file and broadcasts a reload
// when it changes. Without a configured default there is nothing to
// watch.
func (s *Server) startWatcher(ctx context.Context) error {
	filename := s.store.DefaultPath()
	if filename == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filename); err != nil {
		_ = watcher.Close()
		return err
	}

	go s.runWatcher(ctx, watcher, filename)

	return nil
}

func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, filename string) {
	defer func() { _ = watcher.Close() }()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Atomic rewrites replace the file, which drops the
			// watch on some platforms. Re-add it.
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				_ = watcher.Add(filename)
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				s.broadcast("reload")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", "error", err)
		}
	}
}
