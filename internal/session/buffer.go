package session

// DefaultBufferSize is the number of visible upcoming words.
const DefaultBufferSize = 53

// WordSource draws random words.
type WordSource interface {
	RandomWord() string
}

// Buffer is the sliding window of upcoming words. Index 0 is the current word.
type Buffer struct {
	src   WordSource
	words []string
}

// NewBuffer returns an empty buffer drawing from src.
func NewBuffer(src WordSource) *Buffer {
	return &Buffer{src: src}
}

// Fill discards the content and draws count fresh words.
func (b *Buffer) Fill(count int) {
	if count < 0 {
		count = 0
	}
	b.words = make([]string, 0, count)
	for i := 0; i < count; i++ {
		b.words = append(b.words, b.src.RandomWord())
	}
}

// Advance drops the current word and appends a fresh one.
func (b *Buffer) Advance() {
	if len(b.words) == 0 {
		return
	}
	copy(b.words, b.words[1:])
	b.words[len(b.words)-1] = b.src.RandomWord()
}

// Current returns the word at index 0, or "" when empty.
func (b *Buffer) Current() string {
	if len(b.words) == 0 {
		return ""
	}
	return b.words[0]
}

// Words returns a copy of the buffer.
func (b *Buffer) Words() []string {
	return append([]string(nil), b.words...)
}

// Len returns the buffer length.
func (b *Buffer) Len() int {
	return len(b.words)
}
