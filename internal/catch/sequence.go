package catch

import "strings"

// Sequence is the ordered list of tokens a round must collect and the
// index of the next one required. The token list never changes after
// construction and the index only moves forward.
type Sequence struct {
	tokens []Token
	next   int
}

// NewSequence copies tokens into a fresh sequence at index 0.
func NewSequence(tokens []Token) *Sequence {
	return &Sequence{tokens: append([]Token(nil), tokens...)}
}

// Current returns the token required next, or false if the sequence is exhausted.
func (s *Sequence) Current() (Token, bool) {
	if s == nil || s.next >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.next], true
}

// Advance moves to the next required token. It is a no-op returning
// false when the sequence is already exhausted.
func (s *Sequence) Advance() bool {
	if s == nil || s.next >= len(s.tokens) {
		return false
	}
	s.next++
	return true
}

// IsComplete reports whether every token has been collected.
func (s *Sequence) IsComplete() bool {
	return s != nil && s.next == len(s.tokens)
}

// Matches compares tok to the required token, ignoring case.
// An exhausted sequence matches nothing.
func (s *Sequence) Matches(tok Token) bool {
	need, ok := s.Current()
	return ok && strings.EqualFold(tok, need)
}

func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tokens)
}

func (s *Sequence) Progress() int {
	if s == nil {
		return 0
	}
	return s.next
}

// Caught returns the tokens collected so far.
func (s *Sequence) Caught() []Token {
	if s == nil {
		return nil
	}
	return append([]Token(nil), s.tokens[:s.next]...)
}

// Tokens returns a copy of the whole sequence.
func (s *Sequence) Tokens() []Token {
	if s == nil {
		return nil
	}
	return append([]Token(nil), s.tokens...)
}
