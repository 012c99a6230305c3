package audit

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// syncWriter serializes writes so the background goroutine and test assertions
// don't race on the buffer.
type syncWriter struct {
	mu  chan struct{}
	buf bytes.Buffer
}

func newSyncWriter() *syncWriter {
	w := &syncWriter{mu: make(chan struct{}, 1)}
	w.mu <- struct{}{}
	return w
}

func (w *syncWriter) Write(p []byte) (int, error) {
	<-w.mu
	defer func() { w.mu <- struct{}{} }()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	<-w.mu
	defer func() { w.mu <- struct{}{} }()
	return w.buf.String()
}

func newTestRecorder(t *testing.T, bufferSize int) (*LogRecorder, *syncWriter) {
	t.Helper()

	w := newSyncWriter()
	logger := slog.New(slog.NewJSONHandler(w, nil))

	signer, err := NewSigner([]byte("test-signing-secret"))
	require.NoError(t, err)

	return NewLogRecorder(logger, signer, bufferSize), w
}

func TestLogRecorder_RecordAndClose(t *testing.T) {
	recorder, w := newTestRecorder(t, 16)

	recorder.Record(NewAccessDecision("u1", "llm", "generate", true, ""))
	recorder.Record(NewSecurityEvent("u1", "firewall_block", "high", map[string]any{
		"violations": []string{"toxicity"},
	}))
	recorder.Close()

	out := w.String()
	assert.Contains(t, out, "access_decision")
	assert.Contains(t, out, "security_event")
	assert.Contains(t, out, "firewall_block")
	assert.Contains(t, out, `"signature"`)
	assert.Zero(t, recorder.Dropped())
}

func TestLogRecorder_NeverBlocksOnFullBuffer(t *testing.T) {
	w := newSyncWriter()
	logger := slog.New(slog.NewJSONHandler(w, nil))

	// No signer, tiny buffer. The writer goroutine can be mid-emit, so flood
	// well past capacity and assert the calls all returned promptly.
	recorder := NewLogRecorder(logger, nil, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			recorder.Record(NewAccessDecision("u1", "llm", "generate", false, "rate_limit_exceeded"))
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Record blocked on full buffer")
	}
	recorder.Close()
}

func TestLogRecorder_RecordNilIsNoop(t *testing.T) {
	recorder, _ := newTestRecorder(t, 4)
	recorder.Record(nil)
	recorder.Close()

	assert.Zero(t, recorder.Dropped())
}

func TestLogRecorder_InferenceEventPayload(t *testing.T) {
	recorder, w := newTestRecorder(t, 4)

	recorder.Record(NewInference("u1", "gpt-4", 12, 40, 250*time.Millisecond, 0.0156))
	recorder.Close()

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.String()), &entry))

	payload, ok := entry["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gpt-4", payload["model"])
	assert.InDelta(t, 250.0, payload["latency_ms"], 0.001)
	assert.InDelta(t, 0.0156, payload["cost_usd"], 0.0001)
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer, err := NewSigner([]byte("secret-a"))
	require.NoError(t, err)

	event := NewAccessDecision("u1", "llm", "generate", false, "insufficient_scope")

	signature, err := signer.Sign(event)
	require.NoError(t, err)
	assert.Len(t, signature, 64, "HMAC-SHA256 signature should be 64 hex characters")

	event.Signature = signature
	ok, err := signer.Verify(event)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSigner_DetectsTampering(t *testing.T) {
	signer, err := NewSigner([]byte("secret-a"))
	require.NoError(t, err)

	event := NewAccessDecision("u1", "llm", "generate", false, "insufficient_scope")
	event.Signature, err = signer.Sign(event)
	require.NoError(t, err)

	event.Granted = true

	ok, err := signer.Verify(event)
	require.NoError(t, err)
	assert.False(t, ok, "tampered event should fail verification")
}

func TestSigner_DifferentSecretsDisagree(t *testing.T) {
	signerA, err := NewSigner([]byte("secret-a"))
	require.NoError(t, err)
	signerB, err := NewSigner([]byte("secret-b"))
	require.NoError(t, err)

	event := NewInference("u1", "llama2", 5, 10, time.Millisecond, 0)

	sigA, err := signerA.Sign(event)
	require.NoError(t, err)
	sigB, err := signerB.Sign(event)
	require.NoError(t, err)

	assert.NotEqual(t, sigA, sigB)
}
