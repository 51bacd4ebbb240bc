package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	w, err := EncodeValue(255, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(255), w)

	w, err = EncodeValue(12.34, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(1234), w)

	w, err = EncodeValue(65535, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), w)

	_, err = EncodeValue(-1, 0)
	assert.ErrorIs(t, err, ErrValueRange)

	_, err = EncodeValue(6553.6, 1)
	assert.ErrorIs(t, err, ErrValueRange)
}

func TestWriteRequest_Validate(t *testing.T) {
	ok := NewWriteRequest(31, 100, 0)
	require.NoError(t, ok.Validate())

	bad := ok
	bad.FunctionCode = 16
	assert.ErrorIs(t, bad.Validate(), ErrBadRequest)

	bad = ok
	bad.RegisterCount = 2
	assert.ErrorIs(t, bad.Validate(), ErrBadRequest)

	bad = ok
	bad.BitCount = 1
	assert.ErrorIs(t, bad.Validate(), ErrBadRequest)

	bad = ok
	bad.Signed = true
	assert.ErrorIs(t, bad.Validate(), ErrBadRequest)
}
