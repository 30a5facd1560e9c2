package whiteboard

import (
	"sync"
	"time"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// Stats counts what a session drew and exchanged.
type Stats struct {
	LocalSegments   int
	RemoteSegments  int
	LocalClears     int
	RemoteClears    int
	PublishFailures int
	// Rejected counts inbound events the controller could not render.
	Rejected int

	LastEvent   board.EventType
	LastSender  string
	LastInbound time.Time
}

// statsRecorder guards Stats so a monitor can read while the loop writes.
type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func (r *statsRecorder) update(fn func(*Stats)) {
	r.mu.Lock()
	fn(&r.stats)
	r.mu.Unlock()
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
