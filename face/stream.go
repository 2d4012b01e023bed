package face

import (
	"fmt"
	"io"
	"net"
)

// StreamFace is a face over a stream transport (Unix or TCP socket),
// adapted from the teacher's std/engine/face.StreamFace to the bounded
// reassembly buffer and FIFO send-queue discipline of spec.md §5.
type StreamFace struct {
	baseFace
	network string
	addr    string
	conn    net.Conn
	queue   sendQueue
	reasm   reassembler
}

func NewStreamFace(network, addr string, local bool) *StreamFace {
	return &StreamFace{
		baseFace: newBaseFace(local),
		network:  network,
		addr:     addr,
	}
}

func (f *StreamFace) String() string {
	return fmt.Sprintf("stream-face (%s://%s)", f.network, f.addr)
}

func (f *StreamFace) Open() error {
	if f.IsRunning() {
		return fmt.Errorf("face is already running")
	}
	if f.onError == nil || f.onPkt == nil {
		return fmt.Errorf("face callbacks are not set")
	}

	c, err := net.Dial(f.network, f.addr)
	if err != nil {
		return err
	}
	f.conn = c

	// Drain anything buffered while disconnected, FIFO, before accepting
	// new sends (spec.md §5): sendMut is held from before the face goes up
	// until the drain completes, so no Send can write directly in between.
	f.sendMut.Lock()
	defer f.sendMut.Unlock()
	f.setStateUp()
	go f.receive()
	for _, frame := range f.queue.Drain() {
		if _, err := f.conn.Write(frame); err != nil {
			return err
		}
	}
	return nil
}

func (f *StreamFace) Close() error {
	if f.setStateClosed() {
		if f.conn != nil {
			return f.conn.Close()
		}
	}
	return nil
}

func (f *StreamFace) Send(frame []byte) error {
	f.sendMut.Lock()
	defer f.sendMut.Unlock()

	if !f.IsRunning() {
		f.queue.Enqueue(frame)
		return nil
	}

	_, err := f.conn.Write(frame)
	return err
}

func (f *StreamFace) receive() {
	defer f.setStateDown()

	buf := make([]byte, 4096)
	for {
		n, err := f.conn.Read(buf)
		if n > 0 {
			frames, fErr := f.reasm.Feed(buf[:n])
			for _, frame := range frames {
				f.onPkt(frame)
			}
			if fErr != nil {
				if f.IsRunning() {
					f.onError(fErr)
				}
				return
			}
		}
		if err != nil {
			if f.IsRunning() {
				if err == io.EOF {
					f.onError(io.EOF)
				} else {
					f.onError(err)
				}
			}
			return
		}
	}
}
