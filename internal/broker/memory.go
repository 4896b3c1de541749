package broker

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("broker closed")

const memoryBuffer = 64

// Memory is an in-process MessageBroker. A subscriber that falls behind by
// more than its buffer loses messages.
type Memory struct {
	mu          sync.Mutex
	subscribers map[string]map[chan []byte]struct{}
	closed      bool
	dropped     int
}

func NewMemory() *Memory {
	return &Memory{subscribers: map[string]map[chan []byte]struct{}{}}
}

func (m *Memory) Publish(topic string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for ch := range m.subscribers[topic] {
		msg := append([]byte(nil), message...)
		select {
		case ch <- msg:
		default:
			m.dropped++
		}
	}
	return nil
}

func (m *Memory) Consume(ctx context.Context, topic string) (<-chan []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	ch := make(chan []byte, memoryBuffer)
	if m.subscribers[topic] == nil {
		m.subscribers[topic] = map[chan []byte]struct{}{}
	}
	m.subscribers[topic][ch] = struct{}{}

	go func() {
		<-ctx.Done()
		m.unsubscribe(topic, ch)
	}()
	return ch, nil
}

// Dropped counts messages lost to full subscriber buffers.
func (m *Memory) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for topic, subs := range m.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(m.subscribers, topic)
	}
	return nil
}

func (m *Memory) unsubscribe(topic string, ch chan []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[topic][ch]; ok {
		delete(m.subscribers[topic], ch)
		close(ch)
	}
}
