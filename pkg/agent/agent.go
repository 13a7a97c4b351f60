// Package agent runs the push-to-talk conversation loop.
//
// Each turn reads one terminal line. An empty line records and transcribes
// speech, any other line is used as typed input, and "quit" ends the loop.
// The utterance is sent to the dialogue engine, the reply is echoed as it
// streams, and the full reply is then spoken.
//
//	a := agent.New(cfg)
//	if err := a.Initialize(ctx); err != nil {
//	    // *voice.ConfigurationError or *voice.ModelLoadError
//	}
//	defer a.Close()
//	a.Run(ctx)
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/teslashibe/go-voice-agent/pkg/dialogue"
	"github.com/teslashibe/go-voice-agent/pkg/models"
	"github.com/teslashibe/go-voice-agent/pkg/stt"
	"github.com/teslashibe/go-voice-agent/pkg/tts"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Prompt is printed before each line is read.
const Prompt = "Press Enter to speak (or type message, 'quit' to exit): "

// Listener records and transcribes one utterance.
type Listener interface {
	Load(ctx context.Context) error
	Listen(ctx context.Context) (string, error)
	Close() error
}

// Responder streams a reply for one utterance, echoing fragments to echo.
type Responder interface {
	Load(ctx context.Context) error
	GetResponse(ctx context.Context, text string, echo io.Writer) (string, error)
	Close() error
}

// Speaker plays text as speech.
type Speaker interface {
	Load(ctx context.Context) error
	Speak(ctx context.Context, text string) error
	Close() error
}

// Agent owns the three engines and the terminal.
type Agent struct {
	cfg    voice.Config
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	style  styles

	manager   *models.Manager
	listener  Listener
	responder Responder
	speaker   Speaker

	metrics     *voice.MetricsCollector
	initialized bool
}

// New creates an agent. Engines not supplied through options are built
// from cfg but not loaded until Initialize.
func New(cfg voice.Config, opts ...Option) *Agent {
	a := &Agent{
		cfg:     cfg,
		in:      os.Stdin,
		out:     os.Stdout,
		logger:  slog.Default(),
		metrics: voice.NewMetricsCollector(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "agent")
	a.style = newStyles(a.out)

	if a.manager == nil && (a.listener == nil || a.speaker == nil) {
		a.manager = models.NewManager(cfg.ModelsDir, models.WithLogger(a.logger))
		a.manager.OnProgress = a.printProgress
	}
	if a.listener == nil {
		a.listener = stt.NewEngine(cfg,
			stt.WithModelManager(a.manager),
			stt.WithOutput(a.out),
			stt.WithLogger(a.logger),
		)
	}
	if a.speaker == nil {
		a.speaker = tts.NewEngine(cfg,
			tts.WithModelManager(a.manager),
			tts.WithOutput(a.out),
			tts.WithLogger(a.logger),
			tts.WithSegmentHook(func(*tts.Segment) { a.metrics.MarkSegment() }),
		)
	}
	if a.responder == nil {
		a.responder = dialogue.NewEngine(cfg,
			dialogue.WithOutput(a.out),
			dialogue.WithLogger(a.logger),
		)
	}
	return a
}

// Initialize validates the settings and loads speech recognition, speech
// synthesis and dialogue, in that order. Nothing is loaded when validation
// fails.
func (a *Agent) Initialize(ctx context.Context) error {
	fmt.Fprintln(a.out, "🚀 Initializing Voice Agent...")

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	stages := []struct {
		name string
		load func(context.Context) error
	}{
		{"stt", a.listener.Load},
		{"tts", a.speaker.Load},
		{"dialogue", a.responder.Load},
	}
	for _, s := range stages {
		if err := s.load(ctx); err != nil {
			return fmt.Errorf("agent: load %s: %w", s.name, err)
		}
	}

	a.initialized = true
	fmt.Fprint(a.out, "\n✨ Voice Agent initialized successfully!\n\n")
	return nil
}

// Run prints the banner and loops until quit, interrupt or end of input.
// Errors inside a turn are reported and the loop continues.
func (a *Agent) Run(ctx context.Context) error {
	if !a.initialized {
		if err := a.Initialize(ctx); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, a.style.banner())
	fmt.Fprintln(a.out)

	lines := a.readLines(ctx)
	for {
		fmt.Fprint(a.out, Prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
		case line, ok = <-lines:
		}

		var res TurnResult
		if ok {
			res = a.Step(ctx, line)
		} else {
			res = TurnResult{Outcome: OutcomeInterrupted}
		}

		switch res.Outcome {
		case OutcomeQuit:
			return nil
		case OutcomeInterrupted:
			fmt.Fprint(a.out, "\n\n👋 Interrupted! Goodbye!\n")
			return nil
		}
		fmt.Fprintln(a.out, a.style.lightRule())
		fmt.Fprintln(a.out)
	}
}

// Step runs one iteration of the loop for an already-read line.
func (a *Agent) Step(ctx context.Context, line string) TurnResult {
	res := TurnResult{TurnID: uuid.NewString()}
	logger := a.logger.With("turn", res.TurnID)

	if ctx.Err() != nil {
		res.Outcome = OutcomeInterrupted
		return res
	}

	input := strings.TrimSpace(line)
	if strings.ToLower(input) == "quit" {
		fmt.Fprint(a.out, "\n👋 Goodbye!\n")
		res.Outcome = OutcomeQuit
		return res
	}

	a.metrics.MarkTurnStart()

	if input != "" {
		fmt.Fprintf(a.out, "📝 Using typed input: \"%s\"\n", input)
		res.Utterance = input
	} else {
		text, err := a.listener.Listen(ctx)
		if err != nil {
			return a.fail(ctx, res, err)
		}
		a.metrics.MarkTranscript()
		if text == "" {
			fmt.Fprintln(a.out, "❌ Could not understand audio. Please try again.")
			logger.Debug("empty transcript")
			res.Outcome = OutcomeEmptyTranscript
			res.Err = voice.ErrEmptyTranscript
			return res
		}
		res.Utterance = text
	}

	fmt.Fprintln(a.out, "🤔 Thinking...")
	fmt.Fprint(a.out, "💬 Assistant: ")

	reply, err := a.responder.GetResponse(ctx, res.Utterance, &fragmentWriter{
		w:       a.out,
		onWrite: a.metrics.MarkFragment,
	})
	fmt.Fprint(a.out, "\n\n")
	res.Reply = reply
	if err != nil {
		return a.fail(ctx, res, err)
	}
	a.metrics.MarkReplyDone()

	if reply != "" {
		if err := a.speaker.Speak(ctx, reply); err != nil {
			return a.fail(ctx, res, err)
		}
	}
	a.metrics.MarkResponseDone()

	m := a.metrics.Current()
	logger.Debug("turn complete",
		"fragments", m.Fragments,
		"segments", m.Segments,
		"latency", m.FormatLatency(),
	)

	res.Outcome = OutcomeReplied
	return res
}

// Metrics returns the latency collector.
func (a *Agent) Metrics() *voice.MetricsCollector {
	return a.metrics
}

// Close releases all engines.
func (a *Agent) Close() error {
	return errors.Join(
		a.listener.Close(),
		a.speaker.Close(),
		a.responder.Close(),
	)
}

func (a *Agent) fail(ctx context.Context, res TurnResult, err error) TurnResult {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		res.Outcome = OutcomeInterrupted
		return res
	}
	fmt.Fprintf(a.out, "❌ Error: %v\n", err)
	a.logger.Warn("turn failed", "turn", res.TurnID, "error", err)
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}

func (a *Agent) printProgress(p models.Progress) {
	switch {
	case p.Done:
		if p.Downloaded > 0 {
			fmt.Fprintf(a.out, "\r📥 Downloading %s: done (%d MB)\n", p.ModelID, p.Downloaded>>20)
		}
	case p.Total > 0:
		pct := min(p.Downloaded*100/p.Total, 99)
		fmt.Fprintf(a.out, "\r📥 Downloading %s: %d%%", p.ModelID, pct)
	}
}

// maxLineBytes bounds one input line; pasted text can exceed bufio's 64 KiB default.
const maxLineBytes = 1 << 20

// readLines delivers input lines until EOF, then closes the channel.
func (a *Agent) readLines(ctx context.Context) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(a.in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintf(a.out, "\n❌ Error reading input: %v\n", err)
			a.logger.Error("read input", "error", err)
		}
	}()
	return ch
}

// fragmentWriter marks each reply fragment as it is echoed.
type fragmentWriter struct {
	w       io.Writer
	onWrite func()
}

func (f *fragmentWriter) Write(p []byte) (int, error) {
	f.onWrite()
	return f.w.Write(p)
}
