package host

// State enumerates the turn engine's positions. Every early exit in the old
// nested-loop flow maps onto one of the three terminal states, so "opponent
// wins by default" is a single transition instead of duplicated inline logic.
type State int

const (
	StateWaitStart State = iota // blocked on the two-player barrier
	StateDeal                   // sending initial hands
	StateRound                  // at the top of a round
	StateToolPhase              // waiting for an optional tool selection
	StatePosPrompt              // waiting for a valid POS position
	StateGuessPhase             // waiting for a guess
	StateWin                    // terminal: a player guessed the code or won by default
	StateDraw                   // terminal: all rounds exhausted
	StateAbortDisconnect        // terminal: resolved via disconnect
)

var stateNames = map[State]string{
	StateWaitStart:       "WAIT_START",
	StateDeal:            "DEAL",
	StateRound:           "ROUND",
	StateToolPhase:       "TOOL_PHASE",
	StatePosPrompt:       "POS_PROMPT",
	StateGuessPhase:      "GUESS_PHASE",
	StateWin:             "WIN",
	StateDraw:            "DRAW",
	StateAbortDisconnect: "ABORT_DISCONNECT",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal reports whether the engine has reached a game-ending state.
func (s State) Terminal() bool {
	return s == StateWin || s == StateDraw || s == StateAbortDisconnect
}
