package bench

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/novathor-mainline/bootstage"
	"github.com/novathor-mainline/bootstage/internal/atag"
)

// buildList assembles a source list of roughly the given record count,
// cycling through the tag kinds a primary bootloader leaves behind.
func buildList(b *testing.B, records int) []byte {
	b.Helper()
	bd := atag.NewBuilder()
	if err := bd.AddCore(); err != nil {
		b.Fatalf("build list: %v", err)
	}
	for i := 0; i < records; i++ {
		var err error
		switch i % 5 {
		case 0:
			err = bd.AddMem(uint32(i)<<20, 1<<20)
		case 1:
			err = bd.AddCmdline(fmt.Sprintf("console=ttyAMA%d,115200n8 loglevel=%d", i%4, i%8))
		case 2:
			err = bd.AddRevision(uint32(i))
		case 3:
			err = bd.AddSerial(rand.Uint32(), rand.Uint32())
		case 4:
			err = bd.AddInitrd(0x08000000, uint32(i+1)<<12)
		}
		if err != nil {
			b.Fatalf("build list: %v", err)
		}
	}
	if err := bd.Terminate(); err != nil {
		b.Fatalf("build list: %v", err)
	}
	src, err := bd.Finish()
	if err != nil {
		b.Fatalf("build list: %v", err)
	}
	return src
}

func BenchmarkWalk(b *testing.B) {
	src := buildList(b, 256)
	list, err := atag.Parse(src)
	if err != nil {
		b.Fatalf("parse: %v", err)
	}
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		w := list.Walk()
		for w.Next() {
		}
		if err := w.Err(); err != nil {
			b.Fatalf("walk: %v", err)
		}
	}
}

func BenchmarkFilter(b *testing.B) {
	src := buildList(b, 256)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := bootstage.New(nil, bootstage.NewEnv(), nil)
		if err := s.Capture(0x940, src); err != nil {
			b.Fatalf("capture: %v", err)
		}
		if res := s.Filter(); res.Outcome != bootstage.Copied {
			b.Fatalf("filter: %v", res.Outcome)
		}
	}
}

func BenchmarkMemoryScan(b *testing.B) {
	s := bootstage.New(nil, bootstage.NewEnv(), nil)
	if err := s.Capture(0x940, buildList(b, 256)); err != nil {
		b.Fatalf("capture: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := s.MemoryLayout(); err != nil {
			b.Fatalf("memory scan: %v", err)
		}
	}
}

func BenchmarkHandOff(b *testing.B) {
	src := buildList(b, 256)
	area := make([]byte, 64*1024)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := bootstage.New(nil, bootstage.NewEnv(), nil)
		if err := s.Capture(0x940, src); err != nil {
			b.Fatalf("capture: %v", err)
		}
		if _, err := s.MemoryLayout(); err != nil {
			b.Fatalf("memory scan: %v", err)
		}
		s.Filter()
		if _, err := s.Emit(bootstage.NewCursor(area)); err != nil {
			b.Fatalf("emit: %v", err)
		}
	}
}
