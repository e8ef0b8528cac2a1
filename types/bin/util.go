package bin

import (
	"encoding/binary"
	"errors"
)

// SequenceNumberLen is the width of the sequence number that prefixes every encrypted frame.
const SequenceNumberLen = 4

var ErrShortFrame = errors.New("frame too short for sequence number")

// PutUint32 returns v as 4 big-endian bytes.
func PutUint32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

// SequenceNumber reads the leading big-endian sequence number of frame.
func SequenceNumber(frame []byte) (uint32, error) {
	if len(frame) < SequenceNumberLen {
		return 0, ErrShortFrame
	}
	return binary.BigEndian.Uint32(frame[:SequenceNumberLen]), nil
}

// SplitFrame splits frame into its sequence number header and the rest.
func SplitFrame(frame []byte) (header, body []byte, err error) {
	if len(frame) < SequenceNumberLen {
		return nil, nil, ErrShortFrame
	}
	return frame[:SequenceNumberLen], frame[SequenceNumberLen:], nil
}
