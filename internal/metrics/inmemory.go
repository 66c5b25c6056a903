package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RedirectCacheHits       uint64 `json:"redirect_cache_hits"`
	RedirectCacheMisses     uint64 `json:"redirect_cache_misses"`
	RedirectDurationCount   uint64 `json:"redirect_duration_count"`
	RedirectDurationTotalNs int64  `json:"redirect_duration_total_ns"`
	LinksCreated            uint64 `json:"links_created"`
	CodeCollisions          uint64 `json:"code_collisions"`
	ClicksRecorded          uint64 `json:"clicks_recorded"`
	ClicksRetried           uint64 `json:"clicks_retried"`
	ClicksLost              uint64 `json:"clicks_lost"`
	UsersRegistered         uint64 `json:"users_registered"`
	LoginsSucceeded         uint64 `json:"logins_succeeded"`
	LoginsFailed            uint64 `json:"logins_failed"`
}

// InMemoryRecorder stores metrics in memory.
// Suitable for the admin snapshot endpoint and for tests.
type InMemoryRecorder struct {
	redirectCacheHits       uint64
	redirectCacheMisses     uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
	linksCreated            uint64
	codeCollisions          uint64
	clicksRecorded          uint64
	clicksRetried           uint64
	clicksLost              uint64
	usersRegistered         uint64
	loginsSucceeded         uint64
	loginsFailed            uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RedirectCacheHits:       atomic.LoadUint64(&m.redirectCacheHits),
		RedirectCacheMisses:     atomic.LoadUint64(&m.redirectCacheMisses),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
		LinksCreated:            atomic.LoadUint64(&m.linksCreated),
		CodeCollisions:          atomic.LoadUint64(&m.codeCollisions),
		ClicksRecorded:          atomic.LoadUint64(&m.clicksRecorded),
		ClicksRetried:           atomic.LoadUint64(&m.clicksRetried),
		ClicksLost:              atomic.LoadUint64(&m.clicksLost),
		UsersRegistered:         atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:         atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:            atomic.LoadUint64(&m.loginsFailed),
	}
}

// IncRedirectCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncRedirectCacheHit() {
	atomic.AddUint64(&m.redirectCacheHits, 1)
}

// IncRedirectCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncRedirectCacheMiss() {
	atomic.AddUint64(&m.redirectCacheMisses, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}

// IncLinkCreated increments the links created counter.
func (m *InMemoryRecorder) IncLinkCreated() {
	atomic.AddUint64(&m.linksCreated, 1)
}

// IncCodeCollision increments the code collision counter.
func (m *InMemoryRecorder) IncCodeCollision() {
	atomic.AddUint64(&m.codeCollisions, 1)
}

// IncClickRecorded increments the clicks recorded counter.
func (m *InMemoryRecorder) IncClickRecorded() {
	atomic.AddUint64(&m.clicksRecorded, 1)
}

// IncClickRetried increments the click retry counter.
func (m *InMemoryRecorder) IncClickRetried() {
	atomic.AddUint64(&m.clicksRetried, 1)
}

// IncClickLost increments the lost click counter.
func (m *InMemoryRecorder) IncClickLost() {
	atomic.AddUint64(&m.clicksLost, 1)
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSucceeded increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}
