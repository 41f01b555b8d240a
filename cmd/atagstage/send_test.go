package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novathor-mainline/bootstage/internal/bootlog"
)

type stubSender struct {
	lines   []string
	replies []string
}

func (s *stubSender) Send(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *stubSender) Ack() (string, error) {
	if len(s.replies) == 0 {
		return ".", nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *stubSender) Close() error { return nil }

func TestHexLine(t *testing.T) {
	assert.Equal(t, ":020000000102FB", hexLine(0, []byte{0x01, 0x02}))
	assert.Equal(t, ":0100100041AE", hexLine(0x10, []byte{0x41}))
}

func TestTransmit_ChunksAndEOF(t *testing.T) {
	buf := make([]byte, 40)
	snd := &stubSender{}

	err := transmit(buf, snd, 16, bootlog.Nop())
	require.NoError(t, err)

	// 16 + 16 + 8 data bytes, then the end record.
	require.Len(t, snd.lines, 4)
	assert.Equal(t, byte(':'), snd.lines[0][0])
	assert.Contains(t, snd.lines[0], ":10000000")
	assert.Contains(t, snd.lines[1], ":10001000")
	assert.Contains(t, snd.lines[2], ":08002000")
	assert.Equal(t, eofLine, snd.lines[3])
}

func TestTransmit_ResendsOnQuery(t *testing.T) {
	snd := &stubSender{replies: []string{"?", ".", "."}}

	err := transmit([]byte{0xaa}, snd, 16, bootlog.Nop())
	require.NoError(t, err)

	require.Len(t, snd.lines, 3)
	assert.Equal(t, snd.lines[0], snd.lines[1])
}

func TestTransmit_RejectionAborts(t *testing.T) {
	snd := &stubSender{replies: []string{"!"}}

	err := transmit([]byte{0xaa}, snd, 16, bootlog.Nop())
	assert.Error(t, err)
	assert.Len(t, snd.lines, 1)
}

func TestTransmit_BadChunk(t *testing.T) {
	snd := &stubSender{}
	assert.Error(t, transmit([]byte{1}, snd, 0, bootlog.Nop()))
	assert.Error(t, transmit([]byte{1}, snd, 256, bootlog.Nop()))
}

func TestTransmit_TooLarge(t *testing.T) {
	snd := &stubSender{}
	err := transmit(make([]byte, 0x10001), snd, 16, bootlog.Nop())
	assert.Error(t, err)
	assert.Empty(t, snd.lines)
}

func TestParsePair(t *testing.T) {
	start, size, err := parsePair("0x80000000:0x10000000")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80000000), start)
	assert.Equal(t, uint32(0x10000000), size)

	start, size, err = parsePair("1024:16")
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), start)
	assert.Equal(t, uint32(16), size)

	_, _, err = parsePair("no-colon")
	assert.Error(t, err)
	_, _, err = parsePair("1:bogus")
	assert.Error(t, err)
}
