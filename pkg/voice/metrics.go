package voice

import (
	"sync"
	"time"
)

// Metrics tracks latency at each stage of one conversation turn.
// All durations are measured from the start of the turn.
type Metrics struct {
	// Timestamps for key events
	TurnStartTime    time.Time // When input was read
	TranscriptTime   time.Time // When transcription completed (voice turns only)
	FirstTokenTime   time.Time // When the first reply fragment arrived
	ReplyDoneTime    time.Time // When the reply stream was drained
	ResponseDoneTime time.Time // When the last speech segment finished

	// Computed latencies (from turn start)
	ASRLatency    time.Duration
	LLMFirstToken time.Duration
	LLMTotal      time.Duration
	TotalLatency  time.Duration

	// Counts for this turn
	Fragments int // Reply fragments received
	Segments  int // Speech segments played
}

// MetricsCollector collects latency metrics during a conversation turn.
// It is goroutine-safe.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
	history []Metrics // Recent turns for averaging
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		history: make([]Metrics, 0, 100),
	}
}

// MarkTurnStart resets the collector for a new turn.
func (m *MetricsCollector) MarkTurnStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Metrics{TurnStartTime: time.Now()}
}

// MarkTranscript records when transcription completed.
func (m *MetricsCollector) MarkTranscript() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.TranscriptTime = time.Now()
	m.current.ASRLatency = m.since(m.current.TranscriptTime)
}

// MarkFragment records a reply fragment, timing the first one.
func (m *MetricsCollector) MarkFragment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Fragments++
	if m.current.FirstTokenTime.IsZero() {
		m.current.FirstTokenTime = time.Now()
		m.current.LLMFirstToken = m.since(m.current.FirstTokenTime)
	}
}

// MarkReplyDone records when the reply stream was fully drained.
func (m *MetricsCollector) MarkReplyDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ReplyDoneTime = time.Now()
	m.current.LLMTotal = m.since(m.current.ReplyDoneTime)
}

// MarkSegment records one played speech segment.
func (m *MetricsCollector) MarkSegment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Segments++
}

// MarkResponseDone records when speech finished and archives the turn.
func (m *MetricsCollector) MarkResponseDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ResponseDoneTime = time.Now()
	m.current.TotalLatency = m.since(m.current.ResponseDoneTime)

	m.history = append(m.history, m.current)
	if len(m.history) > 100 {
		m.history = m.history[1:]
	}
}

// since must be called with mutex held.
func (m *MetricsCollector) since(t time.Time) time.Duration {
	if m.current.TurnStartTime.IsZero() {
		return 0
	}
	return t.Sub(m.current.TurnStartTime)
}

// Current returns the current metrics snapshot.
func (m *MetricsCollector) Current() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Average returns average metrics over recent completed turns.
func (m *MetricsCollector) Average() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) == 0 {
		return Metrics{}
	}

	var avg Metrics
	for _, h := range m.history {
		avg.ASRLatency += h.ASRLatency
		avg.LLMFirstToken += h.LLMFirstToken
		avg.LLMTotal += h.LLMTotal
		avg.TotalLatency += h.TotalLatency
	}

	n := time.Duration(len(m.history))
	avg.ASRLatency /= n
	avg.LLMFirstToken /= n
	avg.LLMTotal /= n
	avg.TotalLatency /= n

	return avg
}

// FormatLatency returns a formatted string of the turn's latencies.
func (m *Metrics) FormatLatency() string {
	return formatDuration(m.ASRLatency) + " ASR | " +
		formatDuration(m.LLMFirstToken) + " LLM first | " +
		formatDuration(m.LLMTotal) + " LLM | " +
		formatDuration(m.TotalLatency) + " TOTAL"
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "---ms"
	}
	return d.Round(time.Millisecond).String()
}
