package core

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// manualClock hands out tickers that only fire when the test says so.
type manualClock struct {
	tickers []*manualTicker
}

type manualTicker struct {
	ch      chan time.Time
	stopped bool
}

func (c *manualClock) NewTicker(_ time.Duration) Ticker {
	t := &manualTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped = true }

// active returns the number of tickers that have not been stopped.
func (c *manualClock) active() int {
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// recordingLogger captures events written through EventLogger.
type recordingLogger struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Type string
	Data map[string]any
}

func (l *recordingLogger) LogEvent(eventType string, data map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, recordedEvent{Type: eventType, Data: data})
	return nil
}

func (l *recordingLogger) count(eventType string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory KeyValueStore with switchable failures.
type memStore struct {
	data    map[string]string
	failGet bool
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errStoreDown
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	if s.failSet {
		return errStoreDown
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	if s.failSet {
		return errStoreDown
	}
	s.data = make(map[string]string)
	return nil
}

// sequentialIDs yields id-1, id-2, ...
type sequentialIDs struct{ n int }

func (g *sequentialIDs) GenerateTaskID() (string, error) {
	g.n++
	return "id-" + strconv.Itoa(g.n), nil
}

