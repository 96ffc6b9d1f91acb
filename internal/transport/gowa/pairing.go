package gowa

import (
	"sync"
	"time"
)

// Pairing caches the most recent pairing QR payload reported by the gateway,
// so the admin API can serve it as a PNG while the device is unauthenticated.
type Pairing struct {
	mu        sync.Mutex
	content   string
	updatedAt time.Time
}

// NewPairing creates an empty pairing cache.
func NewPairing() *Pairing {
	return &Pairing{}
}

// Set stores the latest QR payload.
func (p *Pairing) Set(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = content
	p.updatedAt = time.Now()
}

// Clear drops the cached payload, typically after a successful connect.
func (p *Pairing) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = ""
}

// Current returns the cached QR payload and when it arrived. ok is false when
// no payload is cached.
func (p *Pairing) Current() (content string, updatedAt time.Time, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content, p.updatedAt, p.content != ""
}
