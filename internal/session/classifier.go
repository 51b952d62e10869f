package session

// Class is the outcome of classifying one typed character.
type Class int

const (
	// Correct marks a character matching the target before any mismatch.
	Correct Class = iota
	// Wrong marks a mismatch, an overtyped character, or anything after the
	// first mismatch in a word.
	Wrong
)

func (c Class) String() string {
	if c == Correct {
		return "correct"
	}
	return "wrong"
}

// Classifier tracks per-word typing state between input events.
type Classifier struct {
	prevLen     int
	hadMismatch bool
}

// Classify classifies the runes appended to input since the previous call.
// Deleted runes are never classified.
func (c *Classifier) Classify(target, input string) []Class {
	targetRunes := []rune(target)
	inputRunes := []rune(input)
	var out []Class
	for p := c.prevLen; p < len(inputRunes); p++ {
		switch {
		case c.hadMismatch || p >= len(targetRunes):
			c.hadMismatch = true
			out = append(out, Wrong)
		case inputRunes[p] == targetRunes[p]:
			out = append(out, Correct)
		default:
			c.hadMismatch = true
			out = append(out, Wrong)
		}
	}
	c.prevLen = len(inputRunes)
	return out
}

// Reset clears per-word state.
func (c *Classifier) Reset() {
	c.prevLen = 0
	c.hadMismatch = false
}

// HadMismatch reports whether the current word has a typo.
func (c *Classifier) HadMismatch() bool {
	return c.hadMismatch
}

// PrevLen returns the input length seen by the last call.
func (c *Classifier) PrevLen() int {
	return c.prevLen
}
