package runtime

import "sync/atomic"

// Sequencer issues strictly increasing event ids for the lifetime of the process.
// The first id is 1 so that 0 can mean "not stamped".
type Sequencer struct {
	last atomic.Uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Last returns the most recently issued id.
func (s *Sequencer) Last() uint64 {
	return s.last.Load()
}
