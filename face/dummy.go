package face

import "fmt"

// DummyFace is an in-memory Face for tests: SentFrames records every frame
// the engine sent, and FeedPacket delivers an inbound frame synchronously
// (adapted from the teacher's std/engine/face.DummyFace).
type DummyFace struct {
	baseFace
	SentFrames [][]byte
}

func NewDummyFace() *DummyFace {
	return &DummyFace{
		baseFace: newBaseFace(true),
	}
}

func (f *DummyFace) String() string { return "dummy-face" }

func (f *DummyFace) Open() error {
	if f.onError == nil || f.onPkt == nil {
		return fmt.Errorf("face callbacks are not set")
	}
	if f.IsRunning() {
		return fmt.Errorf("face is already running")
	}
	f.setStateUp()
	return nil
}

func (f *DummyFace) Close() error {
	if !f.setStateClosed() {
		return fmt.Errorf("face is not running")
	}
	return nil
}

func (f *DummyFace) Send(frame []byte) error {
	if !f.IsRunning() {
		return fmt.Errorf("face is not running")
	}
	f.SentFrames = append(f.SentFrames, append([]byte(nil), frame...))
	return nil
}

// FeedPacket delivers an inbound frame to the engine synchronously.
func (f *DummyFace) FeedPacket(frame []byte) error {
	if !f.IsRunning() {
		return fmt.Errorf("face is not running")
	}
	f.onPkt(frame)
	return nil
}

// Consume pops the oldest frame sent by the engine, for test assertions.
func (f *DummyFace) Consume() ([]byte, error) {
	if len(f.SentFrames) == 0 {
		return nil, fmt.Errorf("no packet to consume")
	}
	pkt := f.SentFrames[0]
	f.SentFrames = f.SentFrames[1:]
	return pkt, nil
}
