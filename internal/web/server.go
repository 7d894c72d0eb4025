// Package web exposes a read-only status endpoint for the running trading
// loop. Observational only; nothing here feeds back into decisions.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Snapshot is a point-in-time view of the ledger and profit metrics,
// published by the loop after each tick.
type Snapshot struct {
	Timestamp    string `json:"timestamp"`
	Price        string `json:"price"`
	Capital      string `json:"capital"`
	Holdings     int64  `json:"holdings"`
	AveragePrice string `json:"average_price,omitempty"`
	Realized     string `json:"realized_profit"`
	Unrealized   string `json:"unrealized_profit"`
	TotalAssets  string `json:"total_assets"`
	ProfitRate   string `json:"profit_rate"`
}

// Holder stores the latest snapshot behind a mutex so the HTTP handlers
// never touch the loop-owned ledger.
type Holder struct {
	mu   sync.RWMutex
	snap Snapshot
	set  bool
}

// NewHolder creates an empty snapshot holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set publishes a new snapshot.
func (h *Holder) Set(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.set = true
}

// Get returns the latest snapshot and whether one was published yet.
func (h *Holder) Get() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.set
}

// Server serves the status page and JSON state endpoint.
type Server struct {
	Addr   string
	Holder *Holder
}

// NewServer creates a status server reading from the given holder.
func NewServer(addr string, holder *Holder) *Server {
	return &Server{Addr: addr, Holder: holder}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/state", s.handleState)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "status server failed")
	}

	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.Holder.Get()
	if !ok {
		http.Error(w, "no tick completed yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>onelot</title></head>
<body>
<h1>onelot</h1>
<pre id="state">loading...</pre>
<script>
async function refresh() {
  try {
    const res = await fetch('/state');
    document.getElementById('state').textContent = res.ok
      ? JSON.stringify(await res.json(), null, 2)
      : 'no tick completed yet';
  } catch (e) {
    document.getElementById('state').textContent = String(e);
  }
}
refresh();
setInterval(refresh, 5000);
</script>
</body>
</html>
`
