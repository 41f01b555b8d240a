package memmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novathor-mainline/bootstage/internal/atag"
)

func buildList(t *testing.T, banks []Bank) []byte {
	t.Helper()
	b := atag.NewBuilder()
	require.NoError(t, b.AddCore())
	for _, bank := range banks {
		require.NoError(t, b.AddMem(bank.Start, bank.Size))
	}
	require.NoError(t, b.AddSerial(1, 0))
	require.NoError(t, b.Terminate())
	buf, err := b.Finish()
	require.NoError(t, err)
	return buf
}

func TestScan_SingleBank(t *testing.T) {
	src := buildList(t, []Bank{{Start: 0x80000000, Size: 0x40000000}})

	layout := Scan(src, 4, nil)
	assert.Equal(t, uint64(0x40000000), layout.TotalBytes)
	require.Len(t, layout.Banks, 1)
	assert.Equal(t, Bank{Start: 0x80000000, Size: 0x40000000}, layout.Banks[0])
}

func TestScan_BanksKeepSourceOrder(t *testing.T) {
	banks := []Bank{
		{Start: 0x00000000, Size: 0x10000000},
		{Start: 0x20000000, Size: 0x08000000},
		{Start: 0x40000000, Size: 0x04000000},
	}
	layout := Scan(buildList(t, banks), 4, nil)

	assert.Equal(t, banks, layout.Banks)
	assert.Equal(t, uint64(0x1c000000), layout.TotalBytes)
}

func TestScan_TotalCountsBanksBeyondTableCap(t *testing.T) {
	var banks []Bank
	for i := uint32(0); i < 6; i++ {
		banks = append(banks, Bank{Start: i << 24, Size: 0x01000000})
	}
	layout := Scan(buildList(t, banks), 4, nil)

	assert.Equal(t, uint64(6*0x01000000), layout.TotalBytes)
	assert.Equal(t, banks[:4], layout.Banks)
}

func TestScan_InvalidLeadTag(t *testing.T) {
	b := atag.NewBuilder()
	require.NoError(t, b.AddMem(0, 0x10000000))
	require.NoError(t, b.Terminate())
	src, err := b.Finish()
	require.NoError(t, err)

	layout := Scan(src, 4, nil)
	assert.Zero(t, layout.TotalBytes)
	assert.Empty(t, layout.Banks)
}

func TestScan_EmptySource(t *testing.T) {
	layout := Scan(nil, 4, nil)
	assert.Zero(t, layout.TotalBytes)
	assert.Empty(t, layout.Banks)
}

func TestScan_KeepsBanksExtractedBeforeFault(t *testing.T) {
	src := buildList(t, []Bank{{Start: 0x00000000, Size: 0x20000000}})
	// Chop the terminator off so the walk runs out of buffer.
	src = src[:len(src)-8]

	layout := Scan(src, 4, nil)
	assert.Equal(t, uint64(0x20000000), layout.TotalBytes)
	assert.Len(t, layout.Banks, 1)
}

func TestScan_IgnoresOtherTags(t *testing.T) {
	b := atag.NewBuilder()
	require.NoError(t, b.AddCore())
	require.NoError(t, b.AddRevision(3))
	require.NoError(t, b.AddCmdline("root=/dev/mmcblk0p2"))
	require.NoError(t, b.Terminate())
	src, err := b.Finish()
	require.NoError(t, err)

	layout := Scan(src, 4, nil)
	assert.Zero(t, layout.TotalBytes)
	assert.Empty(t, layout.Banks)
}
