package game

// Tool identifies a one-shot tool card.
type Tool string

// The five tool cards.
const (
	ToolPos       Tool = "POS"       // Reveal one digit of the opponent's answer by position.
	ToolShuffle   Tool = "SHUFFLE"   // Reorder your own answer.
	ToolExclude   Tool = "EXCLUDE"   // Learn a digit absent from the opponent's answer.
	ToolDouble    Tool = "DOUBLE"    // Guess twice this turn.
	ToolReshuffle Tool = "RESHUFFLE" // Trade your whole number hand for a fresh one.
)

// Tools lists every tool card in deck-building order.
var Tools = []Tool{ToolPos, ToolShuffle, ToolExclude, ToolDouble, ToolReshuffle}

// PosDigit returns the digit at the 1-based position of answer. The caller
// validates the range against NumGuessDigits before calling.
func PosDigit(answer []string, pos int) string {
	return answer[pos-1]
}

// ShuffleAnswer reorders p's hidden answer in place.
func (g *Game) ShuffleAnswer(p *Player) {
	g.rng.Shuffle(len(p.Answer), func(i, j int) {
		p.Answer[i], p.Answer[j] = p.Answer[j], p.Answer[i]
	})
}

// Exclude picks one digit, uniformly at random, that does not occur in the
// opponent's answer.
func (g *Game) Exclude(opponent *Player) string {
	present := make(map[string]bool, len(opponent.Answer))
	for _, d := range opponent.Answer {
		present[d] = true
	}
	var absent []string
	for _, d := range digits {
		if !present[d] {
			absent = append(absent, d)
		}
	}
	return absent[g.rng.Intn(len(absent))]
}

// Reshuffle returns p's entire number hand to the deck, reshuffles it, and
// deals a fresh hand.
func (g *Game) Reshuffle(p *Player) {
	g.NumberDeck = append(g.NumberDeck, p.NumberHand...)
	p.NumberHand = p.NumberHand[:0]
	g.rng.Shuffle(len(g.NumberDeck), func(i, j int) {
		g.NumberDeck[i], g.NumberDeck[j] = g.NumberDeck[j], g.NumberDeck[i]
	})
	g.DrawUp(p)
}
