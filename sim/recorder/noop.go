package recorder

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *Run) error             { return nil }
func (n *NoopRecorder) RecordRows(_ string, _ []Row) error { return nil }
func (n *NoopRecorder) Close() error                       { return nil }
