// Package session owns the durable flag recording whether the gateway session
// is authenticated and when it last became so.
package session

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"storebot_backend/platform/logger"
)

// FreshnessWindow is how long a stored authentication is trusted. Beyond it
// the session is treated as unauthenticated regardless of the stored flag.
const FreshnessWindow = 24 * time.Hour

// Status is the durable auth-status record.
type Status struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	LastAuth        *time.Time `json:"lastAuth"`
}

// Tracker is the file-backed session status tracker.
type Tracker struct {
	mu     sync.Mutex
	path   string
	status Status
	log    *logger.Logger
	now    func() time.Time
}

// New loads the auth status from path. A missing, empty, or malformed file
// falls back to the unauthenticated default and is rewritten. The freshness
// rule is applied on load: a stale LastAuth clears IsAuthenticated, and the
// correction is persisted.
func New(path string, log *logger.Logger) *Tracker {
	t := &Tracker{path: path, log: log, now: time.Now}

	data, err := os.ReadFile(path)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		var status Status
		if parseErr := json.Unmarshal(data, &status); parseErr == nil {
			t.status = status
			if t.expireStale() {
				if saveErr := t.save(); saveErr != nil {
					log.StoreError("save auth status", saveErr)
				}
			}
			return t
		} else {
			log.StoreError("load auth status", parseErr)
		}
	} else if err != nil && !os.IsNotExist(err) {
		log.StoreError("load auth status", err)
	}

	t.status = Status{}
	if saveErr := t.save(); saveErr != nil {
		log.StoreError("save auth status", saveErr)
	}
	return t
}

// IsAuthenticated reports whether the session is currently authenticated,
// applying the freshness window.
func (t *Tracker) IsAuthenticated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireStale()
	return t.status.IsAuthenticated
}

// Current returns a snapshot of the status after applying the freshness rule.
func (t *Tracker) Current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireStale()
	return t.status
}

// MarkAuthenticated records a successful connection and persists.
func (t *Tracker) MarkAuthenticated(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.IsAuthenticated = true
	t.status.LastAuth = &now
	if err := t.save(); err != nil {
		t.log.StoreError("save auth status", err)
	}
}

// MarkUnauthenticated records a forced logout and persists.
func (t *Tracker) MarkUnauthenticated() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.IsAuthenticated = false
	if err := t.save(); err != nil {
		t.log.StoreError("save auth status", err)
	}
}

// expireStale applies the freshness window. Returns true when the stored flag
// was corrected.
func (t *Tracker) expireStale() bool {
	if !t.status.IsAuthenticated {
		return false
	}
	if t.status.LastAuth == nil || t.now().Sub(*t.status.LastAuth) > FreshnessWindow {
		t.status.IsAuthenticated = false
		return true
	}
	return false
}

func (t *Tracker) save() error {
	data, err := json.MarshalIndent(t.status, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), ".auth-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), t.path)
}
