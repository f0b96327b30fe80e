package game

// Player holds one participant's game-side state. Network identity lives in
// the session layer; the two are correlated by Index.
type Player struct {
	Name  string
	Index int

	// Answer is the hidden code the opponent is trying to guess: NumGuessDigits
	// distinct digits in a secret order.
	Answer []string

	NumberHand []string
	ToolHand   []Tool

	// History records every tool use and guess this player has made, in order.
	History []string
}

// Record appends an action to the player's history log.
func (p *Player) Record(action string) {
	p.History = append(p.History, action)
}

// HasNumbers reports whether every digit of guess can be taken from the
// player's number hand, duplicates included.
func (p *Player) HasNumbers(guess []string) bool {
	counts := make(map[string]int, len(p.NumberHand))
	for _, n := range p.NumberHand {
		counts[n]++
	}
	for _, d := range guess {
		if counts[d] == 0 {
			return false
		}
		counts[d]--
	}
	return true
}

// removeNumber takes one copy of digit out of the number hand. Reports false
// if the digit is not present.
func (p *Player) removeNumber(digit string) bool {
	for i, n := range p.NumberHand {
		if n == digit {
			p.NumberHand = append(p.NumberHand[:i], p.NumberHand[i+1:]...)
			return true
		}
	}
	return false
}

// SpendTool removes the tool card at the given 1-based index from the tool
// hand and returns it. Reports false for an out-of-range index; the hand is
// untouched in that case.
func (p *Player) SpendTool(index int) (Tool, bool) {
	i := index - 1
	if i < 0 || i >= len(p.ToolHand) {
		return "", false
	}
	tool := p.ToolHand[i]
	p.ToolHand = append(p.ToolHand[:i], p.ToolHand[i+1:]...)
	return tool, true
}

// ToolNames returns the tool hand as plain strings for the HAND message.
func (p *Player) ToolNames() []string {
	names := make([]string, len(p.ToolHand))
	for i, t := range p.ToolHand {
		names[i] = string(t)
	}
	return names
}
