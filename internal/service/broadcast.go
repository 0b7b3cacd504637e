package service

// Batch event types.
const (
	EventScenarioResolved = "scenario_resolved"
	EventBatchComplete    = "batch_complete"
	EventBatchFailed      = "batch_failed"
)

// Broadcaster sends batch progress to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastBatchEvent(batchID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastBatchEvent(string, string, any) {}
