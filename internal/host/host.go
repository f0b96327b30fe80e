// Package host drives one game of 1A2B from deal to decision.
//
// The Host is the single consumer of every session's command queue. All
// game-state mutation happens on its one goroutine, serialized by blocking
// queue reads; the network layer's only job is to feed those queues. At most
// one player's turn is in flight, so this serialization is exactly the
// concurrency the game needs and no game-state lock exists anywhere.
package host

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Heji-sky/1A2B-Game/internal/game"
	"github.com/Heji-sky/1A2B-Game/internal/protocol"
	"github.com/Heji-sky/1A2B-Game/internal/server"
	"github.com/Heji-sky/1A2B-Game/internal/session"
	"github.com/Heji-sky/1A2B-Game/internal/store"
)

const storeTimeout = 2 * time.Second

// NewGameFunc builds the game model for a fresh match. Tests swap it to
// control decks and answers.
type NewGameFunc func(names []string) *game.Game

// Host runs one game to completion.
type Host struct {
	manager *server.Manager
	store   store.Store
	log     *logrus.Entry

	// NewGame builds the model once both players are seated.
	NewGame NewGameFunc

	state State
	game  *game.Game
	end   *server.Latch
}

// New builds a Host bound to the manager's current game. A nil store
// disables snapshots.
func New(manager *server.Manager, st store.Store, log *logrus.Logger) *Host {
	if st == nil {
		st = store.Nop{}
	}
	return &Host{
		manager: manager,
		store:   st,
		log:     logrus.NewEntry(log),
		NewGame: func(names []string) *game.Game {
			return game.New(names, rand.New(rand.NewSource(time.Now().UnixNano())))
		},
		state: StateWaitStart,
	}
}

// State returns the engine's current state.
func (h *Host) State() State {
	return h.state
}

// Run blocks until two players are seated, then plays the game out and
// returns the terminal state. If the process is stopped before the game
// starts, it returns StateWaitStart. The caller concludes the game on the
// manager afterwards; Run itself never tears the roster down.
func (h *Host) Run() State {
	h.transition(StateWaitStart)
	start, end := h.manager.Latches()
	h.end = end

	select {
	case <-start.Done():
	case <-h.manager.Stopped():
		return h.state
	}

	roster := h.manager.Roster()
	if len(roster) != server.MaxPlayers {
		return h.state
	}

	h.game = h.NewGame([]string{roster[0].Name, roster[1].Name})
	h.log = h.log.WithField("game", h.game.ID)
	h.log.Info("both players connected, game starting")

	h.transition(StateDeal)
	for i, s := range roster {
		p := h.game.Players[i]
		h.send(s, protocol.Hand(p.NumberHand, p.ToolNames()))
	}

	for round := 1; round <= h.game.MaxRounds; round++ {
		h.transition(StateRound)
		h.log.WithField("round", round).Debug("round starting")

		for idx := 0; idx < server.MaxPlayers; idx++ {
			roster = h.manager.Roster()
			if idx >= len(roster) {
				break
			}
			current := roster[idx]
			opponent := roster[(idx+1)%len(roster)]
			if done := h.playTurn(current, opponent); done {
				return h.state
			}
		}
	}

	h.transition(StateDraw)
	for _, s := range h.manager.Roster() {
		h.send(s, protocol.MsgDraw)
	}
	h.log.Info("all rounds exhausted, draw")
	h.end.Fire()
	h.cleanupStore()
	return h.state
}

// playTurn runs one player's full turn: hand update, optional tool, then one
// guess (two after DOUBLE). Reports true when the game reached a terminal
// state during the turn.
func (h *Host) playTurn(current, opponent *session.Session) bool {
	g := h.game
	p := g.Players[current.Index]
	opp := g.Players[opponent.Index]

	h.send(current, protocol.Hand(p.NumberHand, p.ToolNames()))
	for _, s := range h.manager.Roster() {
		if s != current {
			h.send(s, protocol.Status(current.Name))
		}
	}

	h.transition(StateToolPhase)
	h.send(current, protocol.MsgTool)

	line, ok := h.next(current)
	if !ok {
		return true
	}

	extraGuess := false
	if index, numeric := parseIndex(line); numeric {
		if tool, spent := p.SpendTool(index); spent {
			g.DiscardTools = append(g.DiscardTools, tool)
			p.Record("tool:" + string(tool))
			h.log.WithFields(logrus.Fields{"player": p.Name, "tool": tool}).Info("tool used")
			h.send(current, protocol.UsedTool(string(tool)))
			h.send(opponent, protocol.OppTool(current.Name, string(tool)))

			switch tool {
			case game.ToolPos:
				pos, ok := h.promptPos(current)
				if !ok {
					return true
				}
				h.send(current, protocol.PosResult(pos, game.PosDigit(opp.Answer, pos)))
			case game.ToolShuffle:
				g.ShuffleAnswer(p)
				h.send(current, protocol.ShuffleResult(game.AnswerString(p.Answer)))
			case game.ToolExclude:
				h.send(current, protocol.ExcludeResult(g.Exclude(opp)))
			case game.ToolDouble:
				extraGuess = true
				h.send(current, protocol.MsgDoubleActive)
			case game.ToolReshuffle:
				g.Reshuffle(p)
				h.send(current, protocol.MsgReshuffleDone)
			}
		}
		// An out-of-range index is "no tool used", not an error.
	}
	// Non-numeric input likewise skips straight to the guess phase.

	h.transition(StateGuessPhase)
	guesses := 1
	if extraGuess {
		guesses = 2
	}
	for i := 0; i < guesses; i++ {
		h.send(current, protocol.Hand(p.NumberHand, p.ToolNames()))
		h.send(current, protocol.Guess(p.NumberHand))

		var digits []string
		for {
			line, ok := h.next(current)
			if !ok {
				return true
			}
			d, valid := game.ParseGuess(line)
			if valid && p.HasNumbers(d) {
				digits = d
				break
			}
			// Wrong length, non-digits, or digits the hand can't cover:
			// nothing is mutated, the prompt is simply repeated.
			h.send(current, protocol.Guess(p.NumberHand))
		}

		guess := strings.Join(digits, "")
		g.SpendNumbers(p, digits)
		g.DrawUp(p)
		exact, partial := game.CheckGuess(opp.Answer, digits)
		p.Record("guess:" + guess)

		h.send(current, protocol.Result(exact, partial))
		h.send(opponent, protocol.OppGuess(current.Name, guess, exact, partial))
		h.log.WithFields(logrus.Fields{
			"player":  p.Name,
			"guess":   guess,
			"exact":   exact,
			"partial": partial,
		}).Info("guess evaluated")

		if exact == game.NumGuessDigits {
			h.win(current)
			return true
		}
	}

	h.snapshot(p)
	return false
}

// next blocks on the acting player's command queue. A disconnect event (the
// only non-command entry) resolves the game in the opponent's favor and
// reports false. Process shutdown is a backstop: if the stop latch fires
// while the engine is blocked here, any already-queued event is drained
// first, otherwise the acting player is treated as gone so Run unwinds.
func (h *Host) next(current *session.Session) (string, bool) {
	var ev session.Event
	select {
	case ev = <-current.Commands:
	case <-h.manager.Stopped():
		select {
		case ev = <-current.Commands:
		default:
			ev = session.Event{Kind: session.EventDisconnect}
		}
	}
	if ev.Kind == session.EventDisconnect {
		h.transition(StateAbortDisconnect)
		h.manager.HandleDisconnect(current)
		h.cleanupStore()
		return "", false
	}
	return ev.Text, true
}

// promptPos re-prompts until the acting player supplies a position within
// the answer length. Malformed input here is never fatal.
func (h *Host) promptPos(current *session.Session) (int, bool) {
	h.transition(StatePosPrompt)
	for {
		h.send(current, protocol.MsgPos)
		line, ok := h.next(current)
		if !ok {
			return 0, false
		}
		if pos, numeric := parseIndex(line); numeric && pos >= 1 && pos <= game.NumGuessDigits {
			return pos, true
		}
	}
}

// win broadcasts the winner to every remaining session and fires the end
// latch. The manager closes sockets and clears the roster afterwards.
func (h *Host) win(current *session.Session) {
	h.transition(StateWin)
	for _, s := range h.manager.Roster() {
		h.send(s, protocol.Winner(current.Name))
	}
	h.log.WithField("player", current.Name).Info("game won")
	h.end.Fire()
	h.cleanupStore()
}

// send writes one line to a session. Write failures are logged by the
// session and swallowed here; disconnect detection belongs to the session's
// own tasks.
func (h *Host) send(s *session.Session, msg string) {
	_ = s.Send(msg)
}

func (h *Host) transition(next State) {
	h.state = next
	h.log.WithField("state", next).Debug("state transition")
}

// snapshot persists the player's state after a completed turn.
func (h *Host) snapshot(p *game.Player) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	snap := store.Snapshot{
		Name:       p.Name,
		Answer:     game.AnswerString(p.Answer),
		NumberHand: append([]string(nil), p.NumberHand...),
		ToolHand:   p.ToolNames(),
		History:    append([]string(nil), p.History...),
	}
	if err := h.store.SavePlayerState(ctx, h.game.ID.String(), p.Name, snap); err != nil {
		h.log.WithError(err).Warn("player snapshot failed")
	}
}

// cleanupStore drops all stored snapshots for the finished game.
func (h *Host) cleanupStore() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	for _, p := range h.game.Players {
		if err := h.store.DeletePlayerState(ctx, h.game.ID.String(), p.Name); err != nil {
			h.log.WithError(err).Warn("snapshot cleanup failed")
		}
	}
}

// parseIndex parses a bare digit string. Unlike strconv.Atoi it rejects
// signs and whitespace, matching the protocol's "digit string" inputs.
func parseIndex(line string) (int, bool) {
	if line == "" {
		return 0, false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, false
	}
	return n, true
}
