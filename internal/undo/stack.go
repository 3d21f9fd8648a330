// Package undo provides a bounded execute/undo/redo log for reversible
// mutations.
package undo

// Command pairs a mutation with its inverse. Execute and Undo must capture
// everything they need up front; the stack replays the same closures on
// redo.
type Command struct {
	Description string
	Execute     func() error
	Undo        func() error
}

// Stack is an ordered command log with a cursor. Entries past the cap are
// evicted oldest-first.
type Stack struct {
	entries []Command
	cursor  int // index one past the last executed entry
	cap     int
}

const DefaultCap = 50

func NewStack(cap int) *Stack {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Stack{cap: cap}
}

// Do executes the command and records it. Any redo entries beyond the
// cursor are discarded first, so history stays linear.
func (s *Stack) Do(c Command) error {
	if err := c.Execute(); err != nil {
		return err
	}
	s.entries = append(s.entries[:s.cursor], c)
	if len(s.entries) > s.cap {
		s.entries = s.entries[len(s.entries)-s.cap:]
	}
	s.cursor = len(s.entries)
	return nil
}

// Undo reverses the entry at the cursor. It returns false when there is
// nothing to undo or the command's Undo fails.
func (s *Stack) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	c := s.entries[s.cursor-1]
	if c.Undo != nil {
		if err := c.Undo(); err != nil {
			return false
		}
	}
	s.cursor--
	return true
}

// Redo re-applies the entry just past the cursor. It returns false when
// there is nothing to redo or replay fails.
func (s *Stack) Redo() bool {
	if s.cursor >= len(s.entries) {
		return false
	}
	c := s.entries[s.cursor]
	if c.Execute != nil {
		if err := c.Execute(); err != nil {
			return false
		}
	}
	s.cursor++
	return true
}

// CanUndo reports whether Undo would act.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether Redo would act.
func (s *Stack) CanRedo() bool { return s.cursor < len(s.entries) }

// LastDescription names the entry Undo would reverse, or "" when empty.
func (s *Stack) LastDescription() string {
	if s.cursor == 0 {
		return ""
	}
	return s.entries[s.cursor-1].Description
}

// NextDescription names the entry Redo would replay, or "" when none.
func (s *Stack) NextDescription() string {
	if s.cursor >= len(s.entries) {
		return ""
	}
	return s.entries[s.cursor].Description
}

// Len is the number of recorded entries.
func (s *Stack) Len() int { return len(s.entries) }

// Clear drops all history.
func (s *Stack) Clear() {
	s.entries = nil
	s.cursor = 0
}
