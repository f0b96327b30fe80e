// Package protocol defines the wire grammar for the 1A2B game server.
//
// All traffic is newline-terminated UTF-8 text over a stream connection.
// There are no message IDs and no length prefixes; one line is one message.
package protocol

import (
	"fmt"
	"strings"
)

// Server → client message heads. Messages that carry fields are built with the
// formatter functions below; the bare constants are complete messages on their
// own.
const (
	MsgFull          = "FULL"           // Sent to an overflow connection before it is dropped.
	MsgHeartbeat     = "HEARTBEAT"      // Liveness probe; client must answer with MsgHeartbeatAck.
	MsgTool          = "TOOL"           // Prompt: optionally pick a tool card by 1-based index.
	MsgPos           = "POS"            // Prompt: pick a 1-based answer position.
	MsgDoubleActive  = "DOUBLE_ACTIVE"  // DOUBLE tool accepted; a second guess follows this turn.
	MsgReshuffleDone = "RESHUFFLE_DONE" // RESHUFFLE tool finished; a fresh hand is on its way.
	MsgDraw          = "DRAW"           // All rounds exhausted with no winner.
)

// Client → server tokens.
const (
	MsgHeartbeatAck = "HEARTBEAT_ACK"
)

// Hand formats a player's current hand: number cards and tool cards as two
// comma-separated lists joined by a semicolon.
func Hand(numbers, tools []string) string {
	return fmt.Sprintf("HAND %s;%s", strings.Join(numbers, ","), strings.Join(tools, ","))
}

// Status names the player whose turn is in progress. Sent to everyone except
// the acting player.
func Status(name string) string {
	return fmt.Sprintf("STATUS %s", name)
}

// UsedTool confirms to the acting player which tool card was spent.
func UsedTool(tool string) string {
	return fmt.Sprintf("USED_TOOL %s", tool)
}

// OppTool tells the opponent that a named player spent a tool card.
func OppTool(name, tool string) string {
	return fmt.Sprintf("OPP_TOOL %s %s", name, tool)
}

// PosResult reveals the digit at a 1-based position of the opponent's answer.
func PosResult(pos int, digit string) string {
	return fmt.Sprintf("POS_RESULT %d %s", pos, digit)
}

// ShuffleResult echoes the acting player's own answer in its new order.
func ShuffleResult(answer string) string {
	return fmt.Sprintf("SHUFFLE_RESULT %s", answer)
}

// ExcludeResult reveals a digit known to be absent from the opponent's answer.
func ExcludeResult(info string) string {
	return fmt.Sprintf("EXCLUDE_RESULT %s", info)
}

// Guess prompts for a guess and repeats the guessable number cards.
func Guess(numbers []string) string {
	return fmt.Sprintf("GUESS %s", strings.Join(numbers, ","))
}

// Result reports a guess outcome to the acting player: digits correct in
// position, then digits correct in value only.
func Result(exact, partial int) string {
	return fmt.Sprintf("RESULT %d %d", exact, partial)
}

// OppGuess reports another player's guess and its outcome.
func OppGuess(name, guess string, exact, partial int) string {
	return fmt.Sprintf("OPP_GUESS %s %s %d %d", name, guess, exact, partial)
}

// Winner announces the game's winner.
func Winner(name string) string {
	return fmt.Sprintf("WINNER %s", name)
}
