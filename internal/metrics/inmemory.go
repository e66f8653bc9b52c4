package metrics

import "sync"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SignUps         map[string]uint64
	LogIns          map[string]uint64
	ListingsCreated uint64
	ListingsDeleted uint64
	DeleteDenied    map[string]uint64
	ImageOperations map[string]uint64 // keyed "op/status"
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu              sync.Mutex
	signUps         map[string]uint64
	logIns          map[string]uint64
	listingsCreated uint64
	listingsDeleted uint64
	deleteDenied    map[string]uint64
	imageOps        map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		signUps:      make(map[string]uint64),
		logIns:       make(map[string]uint64),
		deleteDenied: make(map[string]uint64),
		imageOps:     make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		SignUps:         copyCounts(m.signUps),
		LogIns:          copyCounts(m.logIns),
		ListingsCreated: m.listingsCreated,
		ListingsDeleted: m.listingsDeleted,
		DeleteDenied:    copyCounts(m.deleteDenied),
		ImageOperations: copyCounts(m.imageOps),
	}
}

// IncSignUp increments the sign-up counter for status.
func (m *InMemoryRecorder) IncSignUp(status string) {
	m.mu.Lock()
	m.signUps[status]++
	m.mu.Unlock()
}

// IncLogIn increments the log-in counter for status.
func (m *InMemoryRecorder) IncLogIn(status string) {
	m.mu.Lock()
	m.logIns[status]++
	m.mu.Unlock()
}

// IncListingCreated increments listing created counter.
func (m *InMemoryRecorder) IncListingCreated() {
	m.mu.Lock()
	m.listingsCreated++
	m.mu.Unlock()
}

// IncListingDeleted increments listing deleted counter.
func (m *InMemoryRecorder) IncListingDeleted() {
	m.mu.Lock()
	m.listingsDeleted++
	m.mu.Unlock()
}

// IncListingDeleteDenied increments the refused-delete counter for reason.
func (m *InMemoryRecorder) IncListingDeleteDenied(reason string) {
	m.mu.Lock()
	m.deleteDenied[reason]++
	m.mu.Unlock()
}

// IncImageOperation increments the counter for an object storage call.
func (m *InMemoryRecorder) IncImageOperation(op, status string) {
	m.mu.Lock()
	m.imageOps[op+"/"+status]++
	m.mu.Unlock()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
