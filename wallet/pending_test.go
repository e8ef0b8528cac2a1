package wallet

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingIDsCountFromOne(t *testing.T) {
	p := newPendingTable()

	for want := uint64(1); want <= 3; want++ {
		id, _, err := p.register()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	assert.Equal(t, 3, p.len())
}

func TestPendingOutOfOrder(t *testing.T) {
	p := newPendingTable()

	id1, s1, _ := p.register()
	id2, s2, _ := p.register()

	got2, ok := p.take(id2)
	require.True(t, ok)
	got2.settle(result{raw: json.RawMessage(`2`)})

	got1, ok := p.take(id1)
	require.True(t, ok)
	got1.settle(result{raw: json.RawMessage(`1`)})

	assert.Equal(t, `1`, string((<-s1.ch).raw))
	assert.Equal(t, `2`, string((<-s2.ch).raw))

	_, ok = p.take(id1)
	assert.False(t, ok)
	assert.Equal(t, 0, p.len())
}

func TestSlotSettlesOnce(t *testing.T) {
	s := newSlot()

	s.settle(result{raw: json.RawMessage(`"first"`)})
	s.settle(result{err: errors.New("second")})

	r := <-s.ch
	assert.Equal(t, `"first"`, string(r.raw))
	assert.NoError(t, r.err)

	select {
	case <-s.ch:
		t.Fatal("slot settled twice")
	default:
	}
}

func TestPendingFailAll(t *testing.T) {
	p := newPendingTable()
	cause := errors.New("gone")

	_, s1, _ := p.register()
	_, s2, _ := p.register()

	p.failAll(cause)
	p.failAll(errors.New("later"))

	assert.ErrorIs(t, (<-s1.ch).err, cause)
	assert.ErrorIs(t, (<-s2.ch).err, cause)

	_, _, err := p.register()
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, p.len())
}
