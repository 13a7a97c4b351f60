package agent

// Outcome is how one loop iteration ended.
type Outcome int

const (
	// OutcomeReplied means a reply was streamed and spoken.
	OutcomeReplied Outcome = iota

	// OutcomeQuit means the user typed quit.
	OutcomeQuit

	// OutcomeEmptyTranscript means nothing was understood; the loop re-prompts.
	OutcomeEmptyTranscript

	// OutcomeFailed means a stage returned an error; the loop continues.
	OutcomeFailed

	// OutcomeInterrupted means the context was cancelled or input ended.
	OutcomeInterrupted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReplied:
		return "replied"
	case OutcomeQuit:
		return "quit"
	case OutcomeEmptyTranscript:
		return "empty_transcript"
	case OutcomeFailed:
		return "failed"
	case OutcomeInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// TurnResult describes one iteration of the conversation loop.
type TurnResult struct {
	TurnID    string
	Outcome   Outcome
	Utterance string // Typed or transcribed user text
	Reply     string // Full assistant reply, possibly partial on failure
	Err       error  // Cause for OutcomeFailed, voice.ErrEmptyTranscript for OutcomeEmptyTranscript
}
