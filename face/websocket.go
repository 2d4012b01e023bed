package face

import (
	"errors"

	"github.com/gorilla/websocket"
)

// WebSocketFace is a face over a WebSocket connection (adapted from the
// teacher's std/engine/face.WebSocketFace).
type WebSocketFace struct {
	baseFace
	url   string
	conn  *websocket.Conn
	queue sendQueue
}

func NewWebSocketFace(url string, local bool) *WebSocketFace {
	return &WebSocketFace{
		baseFace: newBaseFace(local),
		url:      url,
	}
}

func (f *WebSocketFace) Open() error {
	if f.IsRunning() {
		return errors.New("face is already running")
	}
	if f.onError == nil || f.onPkt == nil {
		return errors.New("face callbacks are not set")
	}

	c, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	if err != nil {
		return err
	}
	f.conn = c

	f.sendMut.Lock()
	defer f.sendMut.Unlock()
	f.setStateUp()
	go f.receive()
	for _, frame := range f.queue.Drain() {
		if err := f.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return err
		}
	}
	return nil
}

func (f *WebSocketFace) Close() error {
	if !f.setStateClosed() {
		return errors.New("face is not running")
	}
	return f.conn.Close()
}

func (f *WebSocketFace) Send(frame []byte) error {
	f.sendMut.Lock()
	defer f.sendMut.Unlock()

	if !f.IsRunning() {
		f.queue.Enqueue(frame)
		return nil
	}
	return f.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (f *WebSocketFace) receive() {
	for f.IsRunning() {
		messageType, pkt, err := f.conn.ReadMessage()
		if err != nil {
			if f.IsRunning() {
				f.onError(err)
			}
			break
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		f.onPkt(pkt)
	}
	f.setStateDown()
	f.conn = nil
}
