package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

func TestResetChannel_AllZeroAscending(t *testing.T) {
	dev := newFakeDevice()
	for a := uint16(1300); a < 1332; a++ {
		dev.regs[a] = a
	}

	c, delays := newTestController(t, dev)

	out, err := c.ResetChannel(3)
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.NoError(t, out.Err())

	w := dev.writes()
	require.Len(t, w, 32)
	for i, o := range w {
		assert.Equal(t, uint16(1300+i), o.addr)
		assert.Zero(t, o.value)
		assert.Zero(t, dev.regs[o.addr])
	}
	assert.Equal(t, 32, *delays)
}

func TestResetChannel_ContinuesAfterFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failWrit[1110] = true
	dev.regs[1110] = 9

	c, _ := newTestController(t, dev)

	out, err := c.ResetChannel(1)
	require.NoError(t, err)
	require.Len(t, out, 32)

	failed := out.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, regmap.Address(1110), failed[0].Address)
	assert.Error(t, out.Err())

	// Every address after the failure was still attempted.
	w := dev.writes()
	require.Len(t, w, 32)
	assert.Equal(t, uint16(1131), w[31].addr)
	assert.Equal(t, uint16(9), dev.regs[1110])
}

func TestResetChannel_InvalidChannel(t *testing.T) {
	dev := newFakeDevice()
	c, _ := newTestController(t, dev)

	_, err := c.ResetChannel(0)
	assert.ErrorIs(t, err, regmap.ErrInvalidChannel)
	assert.Empty(t, dev.ops)
}

func TestBackupChannel_CapturesBlockInOrder(t *testing.T) {
	dev := newFakeDevice()
	for a := uint16(1200); a < 1232; a++ {
		dev.regs[a] = a * 2
	}

	c, _ := newTestController(t, dev)

	rec, err := c.BackupChannel(2)
	require.NoError(t, err)
	require.NoError(t, rec.Validate())
	assert.True(t, rec.Complete())

	for i, e := range rec.Entries {
		assert.Equal(t, regmap.Address(1200+i), e.Address)
		assert.Equal(t, uint16(1200+i)*2, e.Value)
	}
}

func TestBackupChannel_ReadFailureRecordedPerSlot(t *testing.T) {
	dev := newFakeDevice()
	dev.failRead[1405] = true

	c, _ := newTestController(t, dev)

	rec, err := c.BackupChannel(4)
	require.NoError(t, err)
	require.Len(t, rec.Entries, 32)
	assert.False(t, rec.Complete())

	failed := rec.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, regmap.Address(1405), failed[0].Address)
	assert.Len(t, dev.ops, 32)
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	dev := newFakeDevice()
	for a := uint16(1100); a < 1132; a++ {
		dev.regs[a] = 500 + a
	}

	c, _ := newTestController(t, dev)

	rec, err := c.BackupChannel(1)
	require.NoError(t, err)

	dev.ops = nil
	out := c.RestoreChannel(rec)
	require.Len(t, out, 32)
	assert.NoError(t, out.Err())

	w := dev.writes()
	require.Len(t, w, 32)
	for i, e := range rec.Entries {
		assert.Equal(t, uint16(e.Address), w[i].addr)
		assert.Equal(t, e.Value, w[i].value)
	}
}

func TestBackupRestore_PlaceholdersNotWritten(t *testing.T) {
	dev := newFakeDevice()
	for a := uint16(1100); a < 1132; a++ {
		dev.regs[a] = 1
	}
	dev.failRead[1103] = true
	dev.failRead[1120] = true

	c, _ := newTestController(t, dev)

	rec, err := c.BackupChannel(1)
	require.NoError(t, err)

	dev.ops = nil
	out := c.RestoreChannel(rec)
	require.Len(t, out, 32)

	// Order and addresses are preserved in the outcomes, failed slots skipped.
	for i, o := range out {
		assert.Equal(t, regmap.Address(1100+i), o.Address)
	}
	assert.ErrorIs(t, out[3].Err, ErrNoValue)
	assert.ErrorIs(t, out[20].Err, ErrNoValue)
	assert.Len(t, out.Failed(), 2)

	w := dev.writes()
	require.Len(t, w, 30)
	for _, o := range w {
		assert.NotEqual(t, uint16(1103), o.addr)
		assert.NotEqual(t, uint16(1120), o.addr)
	}
}

func TestRestore_PreservesRecordOrder(t *testing.T) {
	dev := newFakeDevice()
	c, _ := newTestController(t, dev)

	rec := BackupRecord{
		Channel: 1,
		Entries: []BackupEntry{
			{Address: 1105, Value: 5},
			{Address: 1101, Value: 1},
			{Address: 1103, Value: 3},
		},
	}

	out := c.RestoreChannel(rec)
	require.NoError(t, out.Err())

	w := dev.writes()
	require.Len(t, w, 3)
	assert.Equal(t, []uint16{1105, 1101, 1103}, []uint16{w[0].addr, w[1].addr, w[2].addr})
}

func TestBackupRecord_Validate(t *testing.T) {
	rec := BackupRecord{Channel: 1, Entries: make([]BackupEntry, 31)}
	assert.Error(t, rec.Validate())

	rec = BackupRecord{Channel: 9}
	assert.ErrorIs(t, rec.Validate(), regmap.ErrInvalidChannel)

	block, _ := regmap.ChannelBlock(1)
	rec = BackupRecord{Channel: 1}
	for _, a := range block {
		rec.Entries = append(rec.Entries, BackupEntry{Address: a})
	}
	rec.Entries[0], rec.Entries[1] = rec.Entries[1], rec.Entries[0]
	assert.Error(t, rec.Validate())
}
