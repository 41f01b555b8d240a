package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tty "github.com/mattn/go-tty"
	"github.com/spf13/cobra"
)

var (
	sendPort  string
	sendDry   bool
	sendChunk int
)

var sendCmd = &cobra.Command{
	Use:   "send <list.bin>",
	Short: "Stream a parameter list to a board over a serial line",
	Long: `send transfers a list file as hex record lines, waiting for the
board-side receiver to acknowledge each one. With --dry-run the lines
go to stdout instead of a serial device.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendPort, "port", "p", "/dev/ttyUSB0", "serial device")
	sendCmd.Flags().BoolVar(&sendDry, "dry-run", false, "print lines instead of sending")
	sendCmd.Flags().IntVar(&sendChunk, "chunk", 16, "payload bytes per line")
}

func runSend(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var snd lineSender
	if sendDry {
		snd = printSender{}
	} else {
		snd, err = openTTY(sendPort)
		if err != nil {
			return err
		}
	}
	defer snd.Close()

	return transmit(buf, snd, sendChunk, logger)
}

// lineSender is the wire side of the transfer, separated from the
// protocol so it can be driven without hardware.
type lineSender interface {
	Send(line string) error
	Ack() (string, error)
	Close() error
}

const eofLine = ":00000001FF"

// transmit streams buf as hex record lines. The receiver answers each
// line: "." accepts it, "?" asks for it again, anything else aborts
// the transfer.
func transmit(buf []byte, snd lineSender, chunk int, log *slog.Logger) error {
	if chunk < 1 || chunk > 255 {
		return fmt.Errorf("chunk of %d bytes does not fit a record line", chunk)
	}
	if len(buf) > 0x10000 {
		return fmt.Errorf("%d bytes exceed the line protocol's 16-bit addressing", len(buf))
	}

	lines := 0
	for off := 0; off < len(buf); off += chunk {
		end := off + chunk
		if end > len(buf) {
			end = len(buf)
		}
		if err := sendLine(snd, hexLine(off, buf[off:end])); err != nil {
			return err
		}
		lines++
	}
	if err := sendLine(snd, eofLine); err != nil {
		return err
	}
	log.Info("list sent", "bytes", len(buf), "lines", lines)
	return nil
}

func sendLine(snd lineSender, line string) error {
	const attempts = 3
	for i := 0; i < attempts; i++ {
		if err := snd.Send(line); err != nil {
			return err
		}
		reply, err := snd.Ack()
		if err != nil {
			return err
		}
		switch reply {
		case ".":
			return nil
		case "?":
			continue
		default:
			return fmt.Errorf("receiver rejected %q with %q", line, reply)
		}
	}
	return fmt.Errorf("receiver kept asking for %q again", line)
}

// hexLine renders one data record: colon, byte count, 16-bit offset,
// record type 00, payload, and a two's-complement checksum.
func hexLine(off int, data []byte) string {
	var sb strings.Builder
	sum := byte(len(data)) + byte(off>>8) + byte(off)
	fmt.Fprintf(&sb, ":%02X%04X00", len(data), off)
	for _, b := range data {
		fmt.Fprintf(&sb, "%02X", b)
		sum += b
	}
	fmt.Fprintf(&sb, "%02X", byte(0)-sum)
	return sb.String()
}

type ttySender struct {
	io *tty.TTY
}

func openTTY(path string) (*ttySender, error) {
	t, err := tty.OpenDevice(path)
	if err != nil {
		return nil, err
	}
	_ = t.MustRaw()
	return &ttySender{io: t}, nil
}

func (t *ttySender) Send(line string) error {
	if _, err := t.io.Output().WriteString(line); err != nil {
		return err
	}
	_, err := t.io.Output().WriteString("\n")
	return err
}

// Ack reads the receiver's reply a byte at a time up to the newline,
// dropping stray control characters the UART tends to inject.
func (t *ttySender) Ack() (string, error) {
	buf := make([]byte, 64)
	count := 0
	for {
		n, err := t.io.Input().Read(buf[count : count+1])
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		c := buf[count]
		switch {
		case c == '\n':
			return string(buf[:count]), nil
		case c < 32:
			continue
		default:
			if count < len(buf)-1 {
				count++
			}
		}
	}
}

func (t *ttySender) Close() error {
	return t.io.Close()
}

type printSender struct{}

func (printSender) Send(line string) error {
	fmt.Println(line)
	return nil
}

func (printSender) Ack() (string, error) { return ".", nil }

func (printSender) Close() error { return nil }
