package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyBus is a test double that fails the first failures publishes
type flakyBus struct {
	mu       sync.Mutex
	calls    int
	failures int
}

func (b *flakyBus) Publish(context.Context, Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failures {
		return errors.New("bus unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) CallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestResilientPublisherImmediateSuccess(t *testing.T) {
	deadLetterPath := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{}

	rp := NewResilientPublisher(bus, ResilientConfig{
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
		DeadLetterPath: deadLetterPath,
	})

	require.NoError(t, rp.Publish(context.Background(), Event{Type: Type("test_event")}))
	assert.Equal(t, 1, bus.CallCount())

	_, err := os.Stat(deadLetterPath)
	assert.True(t, os.IsNotExist(err), "no dead-letter file expected")
}

func TestResilientPublisherRetriesUntilSuccess(t *testing.T) {
	deadLetterPath := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{failures: 2}

	rp := NewResilientPublisher(bus, ResilientConfig{
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
		DeadLetterPath: deadLetterPath,
	})

	// The caller is decoupled from the retry loop: Publish returns nil
	// even though the first attempt failed.
	require.NoError(t, rp.Publish(context.Background(), Event{Type: Type("test_event")}))

	waitFor(t, time.Second, func() bool { return bus.CallCount() >= 3 })

	_, err := os.Stat(deadLetterPath)
	assert.True(t, os.IsNotExist(err), "successful retry must not dead-letter")
}

func TestResilientPublisherDeadLettersAfterExhaustion(t *testing.T) {
	deadLetterPath := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{failures: 100}

	rp := NewResilientPublisher(bus, ResilientConfig{
		MaxRetries:     2,
		RetryDelay:     5 * time.Millisecond,
		DeadLetterPath: deadLetterPath,
	})

	require.NoError(t, rp.Publish(context.Background(), Event{
		Type:    Type("doomed_event"),
		Payload: map[string]interface{}{"id": "456"},
	}))

	waitFor(t, time.Second, func() bool {
		content, err := os.ReadFile(deadLetterPath)
		return err == nil && len(content) > 0
	})

	content, err := os.ReadFile(deadLetterPath)
	require.NoError(t, err)

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
	assert.Equal(t, Type("doomed_event"), entry.Event.Type)
	assert.Equal(t, 2, entry.Attempts)
}

func TestResilientPublisherSubscribeDelegates(t *testing.T) {
	inner := NewMemoryBus()
	rp := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: filepath.Join(t.TempDir(), "deadletter.jsonl"),
	})

	var received int
	rp.Subscribe(Type("delegated"), func(context.Context, Event) error {
		received++
		return nil
	})

	require.NoError(t, rp.Publish(context.Background(), Event{Type: Type("delegated")}))
	assert.Equal(t, 1, received)
}

func TestDeadLetterWriterAppendsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")

	writer, err := NewDeadLetterWriter(path)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.Write(Event{Type: Type("first")}, 3, errors.New("boom")))
	require.NoError(t, writer.Write(Event{Type: Type("second")}, 1, errors.New("bang")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(content), []byte("\n"))
	require.Len(t, lines, 2)

	var first DeadLetterEntry
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, Type("first"), first.Event.Type)
	assert.Equal(t, "boom", first.LastError)
}
