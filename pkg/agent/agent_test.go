package agent_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-voice-agent/pkg/agent"
	"github.com/teslashibe/go-voice-agent/pkg/audioio"
	"github.com/teslashibe/go-voice-agent/pkg/dialogue"
	"github.com/teslashibe/go-voice-agent/pkg/inference"
	"github.com/teslashibe/go-voice-agent/pkg/stt"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// recorder tracks engine calls across all fakes, in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeListener struct {
	rec     *recorder
	text    string
	err     error
	loadErr error
}

func (f *fakeListener) Load(ctx context.Context) error { f.rec.add("stt.Load"); return f.loadErr }
func (f *fakeListener) Close() error                   { return nil }
func (f *fakeListener) Listen(ctx context.Context) (string, error) {
	f.rec.add("stt.Listen")
	return f.text, f.err
}

type fakeSpeaker struct {
	rec     *recorder
	loadErr error
	err     error

	mu     sync.Mutex
	spoken []string
}

func (f *fakeSpeaker) Load(ctx context.Context) error { f.rec.add("tts.Load"); return f.loadErr }
func (f *fakeSpeaker) Close() error                   { return nil }
func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.rec.add("tts.Speak")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return f.err
}

type harness struct {
	agent    *agent.Agent
	out      *bytes.Buffer
	rec      *recorder
	listener *fakeListener
	speaker  *fakeSpeaker
	provider *inference.Mock
}

func testConfig() voice.Config {
	cfg := voice.DefaultConfig().WithAPIKey("pplx-test")
	cfg.AudioBackend = "mock"
	cfg.RecordDuration = 100 * time.Millisecond
	return cfg
}

// newHarness wires fake audio engines around a real dialogue engine that
// streams from provider.
func newHarness(t *testing.T, cfg voice.Config, input string, provider *inference.Mock, opts ...agent.Option) *harness {
	t.Helper()
	h := &harness{out: &bytes.Buffer{}, rec: &recorder{}, provider: provider}
	h.listener = &fakeListener{rec: h.rec}
	h.speaker = &fakeSpeaker{rec: h.rec}

	responder := dialogue.NewEngine(cfg,
		dialogue.WithProviderFactory(func(ctx context.Context, cfg voice.Config) (inference.Provider, error) {
			h.rec.add("dialogue.Load")
			return provider, nil
		}),
		dialogue.WithOutput(io.Discard),
	)

	opts = append([]agent.Option{
		agent.WithListener(h.listener),
		agent.WithSpeaker(h.speaker),
		agent.WithResponder(responder),
		agent.WithInput(strings.NewReader(input)),
		agent.WithOutput(h.out),
	}, opts...)
	h.agent = agent.New(cfg, opts...)
	return h
}

func TestInitialize_MissingCredential(t *testing.T) {
	for _, key := range []string{"", "   ", "\t\n"} {
		cfg := testConfig().WithAPIKey(key)
		h := newHarness(t, cfg, "", inference.NewMock())

		err := h.agent.Initialize(context.Background())
		if !voice.IsConfigurationError(err) {
			t.Fatalf("key %q: expected ConfigurationError, got %v", key, err)
		}
		if len(h.rec.calls) != 0 {
			t.Errorf("key %q: no engine may load, got %v", key, h.rec.calls)
		}
		if !strings.Contains(h.out.String(), "🚀 Initializing Voice Agent...") {
			t.Error("expected initializing notice")
		}
	}
}

func TestInitialize_LoadOrder(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.NewMock())

	if err := h.agent.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	want := []string{"stt.Load", "tts.Load", "dialogue.Load"}
	if strings.Join(h.rec.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected load order %v, got %v", want, h.rec.calls)
	}
	if !strings.Contains(h.out.String(), "✨ Voice Agent initialized successfully!") {
		t.Error("expected success notice")
	}
}

func TestInitialize_LoadError(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.NewMock())
	h.speaker.loadErr = voice.NewModelLoadError("tts", "kokoro", "Make sure espeak-ng is installed!", errors.New("missing"))

	err := h.agent.Initialize(context.Background())
	if !voice.IsModelLoadError(err) {
		t.Fatalf("expected ModelLoadError, got %v", err)
	}
	if h.rec.count("dialogue.Load") != 0 {
		t.Error("later engines must not load after a failure")
	}
}

func TestRun_Quit(t *testing.T) {
	for _, input := range []string{"quit\n", "  QUIT  \n", "Quit", "\tqUiT\n"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			h := newHarness(t, testConfig(), input, inference.NewMock())

			if err := h.agent.Run(context.Background()); err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			out := h.out.String()
			for _, want := range []string{"VOICE AGENT READY", agent.Prompt, "👋 Goodbye!"} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			if h.rec.count("stt.Listen") != 0 || h.provider.CallCount("Stream") != 0 {
				t.Error("quit must not start a turn")
			}
		})
	}
}

func TestStep_TypedInput(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.NewMock("4", "."))
	ctx := context.Background()
	if err := h.agent.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	res := h.agent.Step(ctx, "What's 2+2?")

	if res.Outcome != agent.OutcomeReplied {
		t.Fatalf("expected replied, got %v (err %v)", res.Outcome, res.Err)
	}
	if res.Reply != "4." {
		t.Errorf("expected reply %q, got %q", "4.", res.Reply)
	}
	if res.Utterance != "What's 2+2?" {
		t.Errorf("unexpected utterance %q", res.Utterance)
	}
	if res.TurnID == "" {
		t.Error("expected a turn id")
	}
	if len(h.speaker.spoken) != 1 || h.speaker.spoken[0] != "4." {
		t.Errorf("expected Speak once with %q, got %v", "4.", h.speaker.spoken)
	}
	if h.rec.count("stt.Listen") != 0 {
		t.Error("typed input must not record")
	}

	out := h.out.String()
	for _, want := range []string{
		`📝 Using typed input: "What's 2+2?"`,
		"🤔 Thinking...",
		"💬 Assistant: 4.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	m := h.agent.Metrics().Current()
	if m.Fragments != 2 {
		t.Errorf("expected 2 fragments recorded, got %d", m.Fragments)
	}
}

func TestStep_VoiceInput(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.NewMock("Hi!"))
	h.listener.text = "hello there"
	ctx := context.Background()
	if err := h.agent.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	res := h.agent.Step(ctx, "   ")

	if res.Outcome != agent.OutcomeReplied {
		t.Fatalf("expected replied, got %v (err %v)", res.Outcome, res.Err)
	}
	if res.Utterance != "hello there" {
		t.Errorf("expected transcript as utterance, got %q", res.Utterance)
	}
	req := h.provider.LastCall().Request
	if got := req.Messages[len(req.Messages)-1].Content; got != "hello there" {
		t.Errorf("expected transcript sent to dialogue, got %q", got)
	}
}

func TestStep_EmptyTranscript(t *testing.T) {
	cfg := testConfig()
	rec := stt.NewMockRecognizer("")
	src := audioio.NewMockSource(audioio.DefaultConfig(), nil)
	var out bytes.Buffer
	listener := stt.NewEngine(cfg,
		stt.WithRecognizerFactory(func(ctx context.Context, cfg voice.Config) (stt.Recognizer, error) {
			return rec, nil
		}),
		stt.WithSource(src),
		stt.WithOutput(&out),
	)

	h := newHarness(t, cfg, "", inference.NewMock("unused"), agent.WithListener(listener), agent.WithOutput(&out))
	ctx := context.Background()
	if err := h.agent.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	res := h.agent.Step(ctx, "")

	if res.Outcome != agent.OutcomeEmptyTranscript {
		t.Fatalf("expected empty transcript, got %v (err %v)", res.Outcome, res.Err)
	}
	if !errors.Is(res.Err, voice.ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript, got %v", res.Err)
	}
	if rec.CallCount("Transcribe") != 1 {
		t.Errorf("expected one transcription, got %d", rec.CallCount("Transcribe"))
	}
	if h.provider.CallCount("Stream") != 0 {
		t.Error("dialogue must not be called for an empty transcript")
	}
	if h.rec.count("tts.Speak") != 0 {
		t.Error("nothing should be spoken")
	}
	if !strings.Contains(out.String(), "❌ Could not understand audio. Please try again.") {
		t.Errorf("expected soft-failure notice:\n%s", out.String())
	}
}

func TestRun_ErrorContinues(t *testing.T) {
	cause := &inference.APIError{StatusCode: 500, Message: "upstream", Provider: "client"}
	h := newHarness(t, testConfig(), "hello\nquit\n", inference.WithError(cause))

	if err := h.agent.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, "❌ Error:") {
		t.Errorf("expected error report:\n%s", out)
	}
	if !strings.Contains(out, "👋 Goodbye!") {
		t.Errorf("loop should continue to quit:\n%s", out)
	}
	if strings.Count(out, agent.Prompt) != 2 {
		t.Errorf("expected 2 prompts, got %d", strings.Count(out, agent.Prompt))
	}
	if h.rec.count("tts.Speak") != 0 {
		t.Error("failed turn must not speak")
	}
}

func TestStep_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		line  string
	}{
		{
			name:  "listen error",
			setup: func(h *harness) { h.listener.err = errors.New("device busy") },
			line:  "",
		},
		{
			name:  "speak error",
			setup: func(h *harness) { h.speaker.err = errors.New("device gone") },
			line:  "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig(), "", inference.NewMock("ok"))
			ctx := context.Background()
			if err := h.agent.Initialize(ctx); err != nil {
				t.Fatalf("Initialize() error: %v", err)
			}
			tt.setup(h)

			res := h.agent.Step(ctx, tt.line)
			if res.Outcome != agent.OutcomeFailed || res.Err == nil {
				t.Fatalf("expected failed with error, got %v (err %v)", res.Outcome, res.Err)
			}
			if !strings.Contains(h.out.String(), "❌ Error: ") {
				t.Error("expected error report")
			}
		})
	}
}

func TestStep_TransportErrorKeepsPartial(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.WithStreamError(errors.New("reset"), "Part"))
	ctx := context.Background()
	if err := h.agent.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	res := h.agent.Step(ctx, "hi")
	if res.Outcome != agent.OutcomeFailed {
		t.Fatalf("expected failed, got %v", res.Outcome)
	}
	if !voice.IsTransportError(res.Err) {
		t.Errorf("expected TransportError, got %v", res.Err)
	}
	if res.Reply != "Part" {
		t.Errorf("expected partial reply, got %q", res.Reply)
	}
}

func TestRun_EndOfInput(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.NewMock())

	if err := h.agent.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(h.out.String(), "👋 Interrupted! Goodbye!") {
		t.Errorf("expected interrupted farewell:\n%s", h.out.String())
	}
}

func TestRun_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	h := newHarness(t, testConfig(), "", inference.NewMock(), agent.WithInput(pr))
	ctx, cancel := context.WithCancel(context.Background())
	if err := h.agent.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	cancel()

	done := make(chan error, 1)
	go func() { done <- h.agent.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !strings.Contains(h.out.String(), "👋 Interrupted! Goodbye!") {
		t.Errorf("expected interrupted farewell:\n%s", h.out.String())
	}
}

func TestStep_CancelledDuringListen(t *testing.T) {
	h := newHarness(t, testConfig(), "", inference.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	if err := h.agent.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	h.listener.err = context.Canceled
	cancel()

	res := h.agent.Step(ctx, "")
	if res.Outcome != agent.OutcomeInterrupted {
		t.Errorf("expected interrupted, got %v", res.Outcome)
	}
	if strings.Contains(h.out.String(), "❌ Error") {
		t.Error("interrupt must not be reported as an error")
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[agent.Outcome]string{
		agent.OutcomeReplied:         "replied",
		agent.OutcomeQuit:            "quit",
		agent.OutcomeEmptyTranscript: "empty_transcript",
		agent.OutcomeFailed:          "failed",
		agent.OutcomeInterrupted:     "interrupted",
	} {
		if o.String() != want {
			t.Errorf("%d: expected %s, got %s", o, want, o.String())
		}
	}
}

func TestRun_LongPastedLine(t *testing.T) {
	long := strings.Repeat("a", 100<<10)
	h := newHarness(t, testConfig(), long+"\nquit\n", inference.NewMock("ok"))

	if err := h.agent.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, "👋 Goodbye!") || strings.Contains(out, "Interrupted") {
		t.Errorf("expected the loop to reach quit, got tail:\n%s", out[max(0, len(out)-300):])
	}
	if h.provider.CallCount("Stream") != 1 {
		t.Fatalf("expected one dialogue request, got %d", h.provider.CallCount("Stream"))
	}
	req := h.provider.LastCall().Request
	if got := req.Messages[len(req.Messages)-1].Content; got != long {
		t.Errorf("expected the full %d-byte line, got %d bytes", len(long), len(got))
	}
}

func TestRun_OversizedLineReported(t *testing.T) {
	h := newHarness(t, testConfig(), strings.Repeat("b", 2<<20)+"\n", inference.NewMock())

	if err := h.agent.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, "❌ Error reading input:") {
		t.Errorf("expected the read error to be reported:\n%s", out)
	}
	if !strings.Contains(out, "👋 Interrupted! Goodbye!") {
		t.Errorf("expected the loop to end:\n%s", out)
	}
	if h.provider.CallCount("Stream") != 0 {
		t.Error("a truncated line must not be sent")
	}
}
