package engine

import (
	"sync"
	"time"

	"github.com/named-data/certbundle/face"
	"github.com/named-data/certbundle/ndn"
)

// Result tags the outcome of an expressed interest (spec.md §1 "the core
// assumes a Face abstraction that delivers interests to the network and
// delivers back a Data, a Nack, or a timeout event per outstanding
// interest").
type Result int

const (
	ResultData Result = iota
	ResultNack
	ResultTimeout
)

// ExpressCallbackArgs is passed to the callback given to Express.
type ExpressCallbackArgs struct {
	Result     Result
	Data       *ndn.Data
	NackReason string
}

// TimeoutMargin absorbs scheduling jitter so a timer firing exactly at
// the interest's lifetime doesn't race a late-arriving reply (adapted
// from the teacher's std/engine/basic.TimeoutMargin).
const TimeoutMargin = 10 * time.Millisecond

type pendingInterest struct {
	interest      *ndn.Interest
	callback      func(ExpressCallbackArgs)
	timeoutCancel func() error
	fired         bool
}

// Engine is the single-threaded cooperative reactor described in spec.md
// §5: every mutation below happens on whatever goroutine owns the Engine,
// matching "all validator and bundle-producer state mutations run on
// that reactor's thread." Adapted from the teacher's
// std/engine/basic.Engine, simplified to consumer-only PIT matching (no
// FIB / prefix registration — the bundle path never serves interests
// through this engine, only expresses them).
type Engine struct {
	face  face.Face
	timer Timer

	mu      sync.Mutex
	pending []*pendingInterest
}

func NewEngine(f face.Face, timer Timer) *Engine {
	return &Engine{face: f, timer: timer}
}

func (e *Engine) Timer() Timer { return e.timer }
func (e *Engine) Face() face.Face { return e.face }

// Start wires up the face's packet/error callbacks and opens it.
func (e *Engine) Start() error {
	e.face.OnPacket(e.onPacket)
	e.face.OnError(func(err error) {})
	return e.face.Open()
}

func (e *Engine) Stop() error {
	return e.face.Close()
}

func (e *Engine) onPacket(frame []byte) {
	if nack, ok := ndn.DecodeNack(frame); ok {
		e.onNack(nack)
		return
	}
	data, err := ndn.DecodeData(frame)
	if err != nil {
		return // malformed or non-Data frame: drop silently, matches spec.md §4.1 codec-error scope
	}
	e.onData(data)
}

func (e *Engine) onData(data *ndn.Data) {
	matched := e.popMatching(func(p *pendingInterest) bool {
		// MustBeFresh constrains cached answers only: Data arriving for a
		// pending interest is accepted whatever its FreshnessPeriod.
		i := *p.interest
		i.Selectors.MustBeFresh = false
		return ndn.MatchesInterest(data, &i)
	})
	for _, p := range matched {
		p.timeoutCancel()
		p.callback(ExpressCallbackArgs{Result: ResultData, Data: data})
	}
}

func (e *Engine) onNack(nack *ndn.Nack) {
	matched := e.popMatching(func(p *pendingInterest) bool {
		return p.interest.Name.Equal(nack.Name)
	})
	for _, p := range matched {
		p.timeoutCancel()
		p.callback(ExpressCallbackArgs{Result: ResultNack, NackReason: nack.Reason})
	}
}

func (e *Engine) popMatching(pred func(*pendingInterest) bool) []*pendingInterest {
	e.mu.Lock()
	defer e.mu.Unlock()

	var matched, kept []*pendingInterest
	for _, p := range e.pending {
		if !p.fired && pred(p) {
			p.fired = true
			matched = append(matched, p)
		} else {
			kept = append(kept, p)
		}
	}
	e.pending = kept
	return matched
}

// Express sends interest and arranges for callback to be invoked exactly
// once, with the result of whichever of Data/Nack/Timeout happens first
// (spec.md §5 ordering guarantee: "callbacks execute in the order the
// underlying packets or timer events arrive").
func (e *Engine) Express(interest *ndn.Interest, callback func(ExpressCallbackArgs)) error {
	wire, err := interest.Encode()
	if err != nil {
		return err
	}

	lifetime := interest.Lifetime
	if lifetime <= 0 {
		lifetime = ndn.DefaultInterestLifetime
	}

	p := &pendingInterest{interest: interest, callback: callback}
	p.timeoutCancel = e.timer.Schedule(lifetime+TimeoutMargin, func() {
		fired := e.popMatching(func(q *pendingInterest) bool { return q == p })
		for _, q := range fired {
			q.callback(ExpressCallbackArgs{Result: ResultTimeout})
		}
	})

	e.mu.Lock()
	e.pending = append(e.pending, p)
	e.mu.Unlock()

	return e.face.Send(wire)
}
