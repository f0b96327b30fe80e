// Package game implements the 1A2B deck, hand, and scoring model.
//
// The network layer never touches these structures directly; the turn engine
// is the only caller, so nothing here needs locking.
package game

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

const (
	// NumGuessDigits is the length of every hidden answer and every guess.
	NumGuessDigits = 4

	// DefaultMaxRounds is how many full rounds are played before a draw.
	DefaultMaxRounds = 10

	// NumberHandSize is the target size a number hand is refilled to.
	NumberHandSize = 6

	// numberCopies is how many copies of each digit the number deck holds.
	numberCopies = 4

	// toolCopies is how many copies of each tool card the tool deck holds.
	toolCopies = 2

	// toolHandSize is how many tool cards each player is dealt. Tools are
	// never redrawn; a spent tool is gone for the game.
	toolHandSize = 2
)

var digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Game is the authoritative state of one match: both players, the shared
// decks, and the discard piles.
type Game struct {
	ID      uuid.UUID
	Players []*Player

	NumberDeck     []string
	ToolDeck       []Tool
	DiscardNumbers []string
	DiscardTools   []Tool

	MaxRounds int

	rng *rand.Rand
}

// New builds a fresh game for the named players: shuffled decks, a hidden
// answer of NumGuessDigits distinct digits per player, and initial hands.
// rng drives every random choice, so a seeded source gives a reproducible
// game.
func New(names []string, rng *rand.Rand) *Game {
	g := &Game{
		ID:        uuid.New(),
		MaxRounds: DefaultMaxRounds,
		rng:       rng,
	}

	for _, d := range digits {
		for i := 0; i < numberCopies; i++ {
			g.NumberDeck = append(g.NumberDeck, d)
		}
	}
	rng.Shuffle(len(g.NumberDeck), func(i, j int) {
		g.NumberDeck[i], g.NumberDeck[j] = g.NumberDeck[j], g.NumberDeck[i]
	})

	for _, t := range Tools {
		for i := 0; i < toolCopies; i++ {
			g.ToolDeck = append(g.ToolDeck, t)
		}
	}
	rng.Shuffle(len(g.ToolDeck), func(i, j int) {
		g.ToolDeck[i], g.ToolDeck[j] = g.ToolDeck[j], g.ToolDeck[i]
	})

	for i, name := range names {
		p := &Player{
			Name:   name,
			Index:  i,
			Answer: g.sampleAnswer(),
		}
		g.DrawUp(p)
		for j := 0; j < toolHandSize && len(g.ToolDeck) > 0; j++ {
			p.ToolHand = append(p.ToolHand, g.ToolDeck[len(g.ToolDeck)-1])
			g.ToolDeck = g.ToolDeck[:len(g.ToolDeck)-1]
		}
		g.Players = append(g.Players, p)
	}
	return g
}

// sampleAnswer picks NumGuessDigits distinct digits in random order.
func (g *Game) sampleAnswer() []string {
	pool := make([]string, len(digits))
	copy(pool, digits)
	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	answer := make([]string, NumGuessDigits)
	copy(answer, pool[:NumGuessDigits])
	return answer
}

// drawNumber pops one card off the number deck, recycling the discard pile
// into a reshuffled deck when the deck runs dry. Reports false only when both
// piles are empty.
func (g *Game) drawNumber() (string, bool) {
	if len(g.NumberDeck) == 0 {
		if len(g.DiscardNumbers) == 0 {
			return "", false
		}
		g.NumberDeck = append(g.NumberDeck, g.DiscardNumbers...)
		g.DiscardNumbers = g.DiscardNumbers[:0]
		g.rng.Shuffle(len(g.NumberDeck), func(i, j int) {
			g.NumberDeck[i], g.NumberDeck[j] = g.NumberDeck[j], g.NumberDeck[i]
		})
	}
	card := g.NumberDeck[len(g.NumberDeck)-1]
	g.NumberDeck = g.NumberDeck[:len(g.NumberDeck)-1]
	return card, true
}

// DrawUp refills p's number hand to NumberHandSize.
func (g *Game) DrawUp(p *Player) {
	for len(p.NumberHand) < NumberHandSize {
		card, ok := g.drawNumber()
		if !ok {
			return
		}
		p.NumberHand = append(p.NumberHand, card)
	}
}

// SpendNumbers moves every digit of guess from p's hand to the discard pile.
// The caller must have validated the guess with Player.HasNumbers first.
func (g *Game) SpendNumbers(p *Player, guess []string) {
	for _, d := range guess {
		if p.removeNumber(d) {
			g.DiscardNumbers = append(g.DiscardNumbers, d)
		}
	}
}

// CheckGuess scores guess against answer Mastermind-style: exact counts
// digits correct in value and position, partial counts digits correct in
// value only. Duplicate guess digits are counted at most as often as the
// value occurs in the answer.
func CheckGuess(answer, guess []string) (exact, partial int) {
	answerLeft := make(map[string]int, len(answer))
	guessLeft := make(map[string]int, len(guess))
	for i := range guess {
		if i < len(answer) && guess[i] == answer[i] {
			exact++
			continue
		}
		guessLeft[guess[i]]++
		if i < len(answer) {
			answerLeft[answer[i]]++
		}
	}
	for d, n := range guessLeft {
		if m := answerLeft[d]; m < n {
			partial += m
		} else {
			partial += n
		}
	}
	return exact, partial
}

// ParseGuess splits a raw guess line into digits. Reports false unless the
// line is exactly NumGuessDigits ASCII digits.
func ParseGuess(line string) ([]string, bool) {
	if len(line) != NumGuessDigits {
		return nil, false
	}
	out := make([]string, 0, NumGuessDigits)
	for _, r := range line {
		if r < '0' || r > '9' {
			return nil, false
		}
		out = append(out, string(r))
	}
	return out, true
}

// AnswerString renders an answer for the SHUFFLE_RESULT message.
func AnswerString(answer []string) string {
	return strings.Join(answer, "")
}
