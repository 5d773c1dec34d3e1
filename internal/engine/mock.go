package engine

import (
	"context"
	"sync"
	"time"
)

// MockTranscriber implements Transcriber with scripted responses for tests.
// Each Transcribe call consumes the next response in order; when the script
// is exhausted, empty transcriptions are returned. Set Err to fail every
// call, or TranscribeFn to compute responses from the submitted audio.
type MockTranscriber struct {
	mu        sync.Mutex
	Responses []Transcription
	Err       error
	// TranscribeFn, when set, overrides Responses.
	TranscribeFn func(samples []float32, sampleRate int) (Transcription, error)

	calls  int
	closed bool
	// windows records the sample count of every submitted window.
	windows []int
}

// Transcribe returns the next scripted response.
func (m *MockTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (Transcription, error) {
	m.mu.Lock()
	m.calls++
	m.windows = append(m.windows, len(samples))
	fn := m.TranscribeFn
	err := m.Err
	var resp Transcription
	if fn == nil && err == nil && m.calls <= len(m.Responses) {
		resp = m.Responses[m.calls-1]
	}
	// Release the lock before invoking the hook so accessors like Calls
	// remain usable while a scripted TranscribeFn is blocked.
	m.mu.Unlock()

	if fn != nil {
		return fn(samples, sampleRate)
	}
	if err != nil {
		return Transcription{}, err
	}
	return resp, nil
}

// Close marks the transcriber closed.
func (m *MockTranscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns how many times Transcribe was invoked.
func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Windows returns the sample counts of all submitted windows.
func (m *MockTranscriber) Windows() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.windows))
	copy(out, m.windows)
	return out
}

// Closed reports whether Close was called.
func (m *MockTranscriber) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockGenerator implements Generator with a canned response for tests.
type MockGenerator struct {
	mu       sync.Mutex
	Response Generation
	Err      error

	prompts []string
}

// Generate records the prompt and returns the canned response.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return Generation{}, m.Err
	}
	resp := m.Response
	if resp.InferenceTime == 0 {
		resp.InferenceTime = time.Millisecond
	}
	return resp, nil
}

// Close is a no-op.
func (m *MockGenerator) Close() error { return nil }

// Prompts returns all prompts passed to Generate.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
