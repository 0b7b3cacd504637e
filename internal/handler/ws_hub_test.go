package handler

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/service"
)

func newTestConn(clientID string) *WSConn {
	return &WSConn{
		conn:     nil, // no real connection for hub tests
		clientID: clientID,
		send:     make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("client-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()
	c := newTestConn("client-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Subscribe(c, "batch-1")
	if hub.BatchSubscriberCount("batch-1") != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.BatchSubscriberCount("batch-1"))
	}

	hub.Unsubscribe(c, "batch-1")
	if hub.BatchSubscriberCount("batch-1") != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.BatchSubscriberCount("batch-1"))
	}
}

func TestHubBroadcastToBatch(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("client-1")
	c2 := newTestConn("client-2")
	c3 := newTestConn("client-3") // not subscribed

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.Subscribe(c1, "batch-1")
	hub.Subscribe(c2, "batch-1")

	hub.BroadcastToBatch("batch-1", WSEvent{
		Type:    service.EventBatchComplete,
		BatchID: "batch-1",
		Data:    map[string]int{"scenarios": 3},
	})

	// c1 and c2 should receive, c3 should not
	select {
	case msg := <-c1.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != service.EventBatchComplete {
			t.Errorf("expected %s, got %s", service.EventBatchComplete, event.Type)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
		// ok
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received broadcast")
	default:
		// ok
	}
}

func TestHubUnregisterCleansUpSubscriptions(t *testing.T) {
	hub := NewHub()
	c := newTestConn("client-1")
	hub.Register(c)
	hub.Subscribe(c, "batch-1")
	hub.Subscribe(c, "batch-2")

	hub.Unregister(c)

	if hub.BatchSubscriberCount("batch-1") != 0 {
		t.Errorf("expected 0 subscribers for batch-1 after unregister")
	}
	if hub.BatchSubscriberCount("batch-2") != 0 {
		t.Errorf("expected 0 subscribers for batch-2 after unregister")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	// Concurrently register, subscribe, broadcast, unregister
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestConn("client")
			hub.Register(c)
			hub.Subscribe(c, "batch-1")
			hub.BroadcastToBatch("batch-1", WSEvent{Type: "test", BatchID: "batch-1"})
			hub.Unsubscribe(c, "batch-1")
			hub.Unregister(c)
		}()
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastBatchEvent(t *testing.T) {
	hub := NewHub()
	c := newTestConn("client-1")
	hub.Register(c)
	defer hub.Unregister(c)
	hub.Subscribe(c, "batch-1")

	var b service.Broadcaster = hub
	b.BroadcastBatchEvent("batch-1", service.EventScenarioResolved, map[string]int{"index": 2})

	select {
	case msg := <-c.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != service.EventScenarioResolved {
			t.Errorf("expected %s, got %s", service.EventScenarioResolved, event.Type)
		}
		if event.BatchID != "batch-1" {
			t.Errorf("expected batch-1, got %s", event.BatchID)
		}
	case <-time.After(time.Second):
		t.Error("did not receive broadcast")
	}
}

func TestClientMessageSerialization(t *testing.T) {
	msg := ClientMessage{Action: "resolve", ID: "r1", Scenario: json.RawMessage(`{"phase":"movement","units":{}}`)}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed ClientMessage
	json.Unmarshal(data, &parsed)
	if parsed.Action != "resolve" || parsed.ID != "r1" {
		t.Errorf("unexpected message %+v", parsed)
	}
	if string(parsed.Scenario) != `{"phase":"movement","units":{}}` {
		t.Errorf("scenario not preserved: %s", parsed.Scenario)
	}
	if parsed.BatchID != "" {
		t.Errorf("expected no batch id, got %s", parsed.BatchID)
	}
}
