package handler

// BroadcastBatchEvent implements service.Broadcaster using the WebSocket hub.
func (h *Hub) BroadcastBatchEvent(batchID string, eventType string, data any) {
	h.BroadcastToBatch(batchID, WSEvent{
		Type:    eventType,
		BatchID: batchID,
		Data:    data,
	})
}
