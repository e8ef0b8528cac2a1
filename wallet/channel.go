package wallet

import (
	"fmt"
	"sync"

	"github.com/edup2p/mwa/types/bin"
	"github.com/edup2p/mwa/types/key"
)

// channel seals and opens frames under the session secret.
//
// Outbound sequence numbers are guarded by the write lock, so frames reach the socket in order.
// Inbound state is owned by the session loop.
type channel struct {
	shared key.SessionShared

	writeMu sync.Mutex
	outSeq  uint32

	inSeq uint32
}

func newChannel(shared key.SessionShared) *channel {
	return &channel{shared: shared}
}

// send seals plaintext with the next sequence number and hands it to write, under the write lock.
func (c *channel) send(plaintext []byte, write func([]byte) error) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.outSeq++
	return write(c.seal(c.outSeq, plaintext))
}

func (c *channel) seal(seq uint32, plaintext []byte) []byte {
	header := bin.PutUint32(seq)
	return append(header, c.shared.Seal(header, plaintext)...)
}

// open checks and advances the inbound sequence number, then decrypts.
func (c *channel) open(frame []byte) ([]byte, error) {
	header, body, err := bin.SplitFrame(frame)
	if err != nil {
		return nil, err
	}

	seq, _ := bin.SequenceNumber(header)
	if seq <= c.inSeq {
		return nil, fmt.Errorf("%w: got %d, last %d", ErrInvalidSequence, seq, c.inSeq)
	}
	c.inSeq = seq

	plaintext, ok := c.shared.Open(header, body)
	if !ok {
		return nil, fmt.Errorf("%w: seq %d", ErrDecrypt, seq)
	}

	return plaintext, nil
}
