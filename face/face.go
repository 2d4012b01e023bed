// Package face implements the Face abstraction spec.md §1 treats as an
// external collaborator: something that "delivers interests to the
// network and delivers back a Data, a Nack, or a timeout event per
// outstanding interest". Grounded on the teacher's std/engine/face
// package (zjkmxy-ndnd), generalized here to the classic-TLV wire
// format of the ndn package instead of the teacher's codegen types.
package face

// Face is the transport-level send/receive abstraction the engine
// expresses interests and receives raw frames through.
type Face interface {
	IsRunning() bool
	IsLocal() bool
	OnPacket(onPkt func(frame []byte))
	OnError(onError func(err error))
	Open() error
	Close() error
	Send(frame []byte) error
}
