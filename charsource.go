package htmltext

import (
	"bufio"
	"errors"
	"io"
)

// ErrPushbackFull is returned when more runes are pushed back than the
// character source can hold.
var ErrPushbackFull = errors.New("character pushback capacity exceeded")

// pushbackCapacity bounds pending pushbacks. The scanner needs at most two:
// a peeked rune plus the '<' that preceded it.
const pushbackCapacity = 4

const eof rune = -1

const byteOrderMark = '\uFEFF'

type pendingRune struct {
	c   rune
	pos Position
}

// charSource decodes runes from the input, drops carriage returns, tracks
// the position and supports a bounded pushback stack. Unreading a rune also
// rewinds the position, so tokens scanned after a peek report where they
// start.
type charSource struct {
	r         *bufio.Reader
	pos       Position
	pushback  [pushbackCapacity]pendingRune
	pending   int
	trail     [pushbackCapacity]Position // positions before recently returned runes
	trailHead int
	trailLen  int
	started   bool
	validate  bool
	check     validator
	err       error
}

func (s *charSource) reset(r *bufio.Reader, validate bool) {
	s.r = r
	s.pos = Position{Line: 1}
	s.pending = 0
	s.trailHead = 0
	s.trailLen = 0
	s.started = false
	s.validate = validate
	s.check.reset()
	s.err = nil
}

// next returns the next rune, or eof once input is exhausted or failed.
func (s *charSource) next() rune {
	if s.pending > 0 {
		s.pending--
		p := s.pushback[s.pending]
		s.remember()
		s.pos = p.pos
		return p.c
	}
	if s.err != nil {
		return eof
	}
	for {
		c, size, err := s.r.ReadRune()
		if err != nil {
			s.err = err
			return eof
		}
		if c == '\r' {
			continue
		}
		if !s.started {
			s.started = true
			if c == byteOrderMark {
				continue
			}
		}
		if s.validate {
			if err := s.check.addRune(c, size); err != nil {
				s.err = err
				return eof
			}
		}
		s.remember()
		if c == '\n' {
			s.pos.Line++
			s.pos.Column = 0
		} else {
			s.pos.Column++
		}
		return c
	}
}

// unread pushes c back so the next call to next returns it. Pushing back eof
// is a no-op so callers can unread whatever they peeked.
func (s *charSource) unread(c rune) error {
	if c == eof {
		return nil
	}
	if s.pending == len(s.pushback) {
		return ErrPushbackFull
	}
	s.pushback[s.pending] = pendingRune{c: c, pos: s.pos}
	s.pending++
	if s.trailLen > 0 {
		s.trailHead = (s.trailHead + len(s.trail) - 1) % len(s.trail)
		s.trailLen--
		s.pos = s.trail[s.trailHead]
	}
	return nil
}

func (s *charSource) remember() {
	s.trail[s.trailHead] = s.pos
	s.trailHead = (s.trailHead + 1) % len(s.trail)
	if s.trailLen < len(s.trail) {
		s.trailLen++
	}
}

// Err returns the first non-EOF read or validation error.
func (s *charSource) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
