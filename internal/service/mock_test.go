package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
)

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, errors.New("cache unavailable")
	}
	return m.entries[key], nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet {
		return errors.New("cache unavailable")
	}
	m.entries[key] = value
	return nil
}

type event struct {
	batchID   string
	eventType string
	data      any
}

type mockBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (m *mockBroadcaster) BroadcastBatchEvent(batchID, eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event{batchID, eventType, data})
}

func (m *mockBroadcaster) count(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.eventType == eventType {
			n++
		}
	}
	return n
}

func decode(t *testing.T, data string) *scenario.Document {
	t.Helper()
	doc, err := scenario.Decode([]byte(data), scenario.YAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}
