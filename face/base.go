package face

import (
	"sync"
	"sync/atomic"
)

// baseFace holds the state shared by every concrete Face implementation
// (adapted from the teacher's std/engine/face.baseFace).
type baseFace struct {
	running atomic.Bool
	local   bool
	onPkt   func(frame []byte)
	onError func(err error)
	sendMut sync.Mutex
}

func newBaseFace(local bool) baseFace {
	return baseFace{local: local}
}

func (f *baseFace) IsRunning() bool { return f.running.Load() }
func (f *baseFace) IsLocal() bool   { return f.local }

func (f *baseFace) OnPacket(onPkt func(frame []byte)) { f.onPkt = onPkt }
func (f *baseFace) OnError(onError func(err error))   { f.onError = onError }

func (f *baseFace) setStateUp()   { f.running.Store(true) }
func (f *baseFace) setStateDown() { f.running.Store(false) }

// setStateClosed marks the face closed and reports whether it was running.
func (f *baseFace) setStateClosed() bool { return f.running.Swap(false) }
