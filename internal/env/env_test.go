package env

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novathor-mainline/bootstage/internal/flash/mockflash"
)

func TestMap_SetGetDelete(t *testing.T) {
	m := NewMap()

	_, ok := m.Get("bootcmd")
	assert.False(t, ok)

	m.Set("bootcmd", "run emmcboot")
	v, ok := m.Get("bootcmd")
	require.True(t, ok)
	assert.Equal(t, "run emmcboot", v)

	m.Set("bootcmd", "run recoverybootcmd")
	v, _ = m.Get("bootcmd")
	assert.Equal(t, "run recoverybootcmd", v)

	m.Delete("bootcmd")
	_, ok = m.Get("bootcmd")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestMap_KeysSorted(t *testing.T) {
	m := NewMap()
	m.Set("serial#", "0000000200001234")
	m.Set("bootcmd", "run emmcboot")
	m.Set("preboot", "")

	assert.Equal(t, []string{"bootcmd", "preboot", "serial#"}, m.Keys())
	assert.Equal(t, 3, m.Len())
}

func TestFile_RoundTrip(t *testing.T) {
	dev := mockflash.NewFile("env")
	f := NewFile(dev)

	m := NewMap()
	m.Set("bootcmd", "run emmcboot")
	m.Set("serial#", "00000002cafe0001")
	m.Set("bootdelay", "1")
	require.NoError(t, f.Save(m))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"bootcmd", "bootdelay", "serial#"}, got.Keys())
	v, _ := got.Get("serial#")
	assert.Equal(t, "00000002cafe0001", v)
}

func TestFile_LoadEmptyDevice(t *testing.T) {
	f := NewFile(mockflash.NewFile("env"))

	m, err := f.Load()
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}

func TestFile_LoadCorruptImage(t *testing.T) {
	dev := mockflash.NewFile("env")
	f := NewFile(dev)

	m := NewMap()
	m.Set("bootcmd", "run emmcboot")
	require.NoError(t, f.Save(m))

	// Flip one payload byte so the stored checksum no longer matches.
	_, err := dev.WriteAt([]byte{'X'}, 6)
	require.NoError(t, err)

	got, err := f.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Zero(t, got.Len())
}

func TestFile_LoadShorterThanChecksum(t *testing.T) {
	dev := mockflash.NewFile("env")
	_, err := dev.WriteAt([]byte{1, 2}, 0)
	require.NoError(t, err)

	got, err := NewFile(dev).Load()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Zero(t, got.Len())
}

func TestFile_SaveShrinksPreviousImage(t *testing.T) {
	dev := mockflash.NewFile("env")
	f := NewFile(dev)

	big := NewMap()
	big.Set("bootargs", "console=ttyAMA2,115200n8 root=/dev/mmcblk0p2 rootwait")
	big.Set("bootcmd", "run emmcboot")
	require.NoError(t, f.Save(big))

	small := NewMap()
	small.Set("bootdelay", "0")
	require.NoError(t, f.Save(small))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"bootdelay"}, got.Keys())
}

func TestFile_LoadSkipsEntriesWithoutSeparator(t *testing.T) {
	payload := []byte("bootcmd=run emmcboot\x00garbage\x00bootdelay=1\x00\x00")
	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf, crc32.ChecksumIEEE(payload))
	copy(buf[4:], payload)

	dev := mockflash.NewFile("env")
	_, err := dev.WriteAt(buf, 0)
	require.NoError(t, err)

	got, err := NewFile(dev).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"bootcmd", "bootdelay"}, got.Keys())
}
