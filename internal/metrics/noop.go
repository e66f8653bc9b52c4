package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncSignUp(string) {}
func (n *NoopRecorder) IncLogIn(string) {}
func (n *NoopRecorder) IncListingCreated() {}
func (n *NoopRecorder) IncListingDeleted() {}
func (n *NoopRecorder) IncListingDeleteDenied(string) {}
func (n *NoopRecorder) IncImageOperation(string, string) {}
