package bin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNumberBigEndian(t *testing.T) {
	frame := append(PutUint32(0x01020304), 0xff, 0xee)

	assert.Equal(t, []byte{1, 2, 3, 4}, frame[:4])

	seq, err := SequenceNumber(frame)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), seq)

	header, body, err := SplitFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, header)
	assert.Equal(t, []byte{0xff, 0xee}, body)
}

func TestSequenceNumberShortFrame(t *testing.T) {
	_, err := SequenceNumber([]byte{0, 1, 2})
	assert.ErrorIs(t, err, ErrShortFrame)

	_, _, err = SplitFrame(nil)
	assert.ErrorIs(t, err, ErrShortFrame)
}
