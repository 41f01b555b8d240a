package handoff

import (
	"log/slog"

	"github.com/novathor-mainline/bootstage/internal/atag"
	"github.com/novathor-mainline/bootstage/internal/bootlog"
	"github.com/novathor-mainline/bootstage/internal/env"
)

// FilterCopy runs the two-pass filter over source. Pass one sizes the
// records that pass through, extracting the serial number into store
// on the way; pass two copies them verbatim into a buffer from alloc.
// The source is never mutated, so the byte total of pass one and the
// bytes written by pass two must agree; a filtered list that fails
// that check is discarded rather than handed to the next stage.
func FilterCopy(source []byte, store env.Store, alloc func(n int) []byte, log *slog.Logger) Result {
	if log == nil {
		log = bootlog.Nop()
	}
	if alloc == nil {
		alloc = func(n int) []byte { return make([]byte, n) }
	}

	list, err := atag.Parse(source)
	if err != nil {
		log.Warn("filter-copy skipped", "error", err)
		return Result{Outcome: SourceInvalid}
	}

	var (
		total     int
		records   int
		serialSet bool
	)
	w := list.Walk()
	for w.Next() {
		rec := w.Record()
		if rec.Tag == atag.Serial && store != nil && writeSerial(rec, store, log) {
			serialSet = true
		}
		if atag.Classify(rec.Tag) != atag.PassThrough {
			continue
		}
		total += rec.Bytes()
		records++
	}
	if err := w.Err(); err != nil {
		log.Warn("source list ends early, keeping the records before the fault", "error", err)
	}

	if total == 0 {
		log.Info("no records to carry over")
		return Result{Outcome: NothingToCopy, SerialSet: serialSet}
	}

	buf := alloc(total)
	if len(buf) < total {
		log.Warn("no buffer for filtered list, handing off without extra records",
			"bytes", total)
		return Result{Outcome: AllocFailed, SerialSet: serialSet}
	}

	b := atag.NewBuilderInto(buf[:total])
	w = list.Walk()
	for w.Next() {
		rec := w.Record()
		if atag.Classify(rec.Tag) != atag.PassThrough {
			continue
		}
		if err := b.AppendRaw(rec); err != nil {
			log.Error("filtered copy abandoned", "error", err)
			return Result{Outcome: Mismatch, SerialSet: serialSet}
		}
	}
	out, err := b.Finish()
	if err != nil || len(out) != total {
		log.Error("copy pass disagrees with sizing pass",
			"want", total, "got", b.Len(), "error", err)
		return Result{Outcome: Mismatch, SerialSet: serialSet}
	}

	log.Info("filtered list ready", "records", records, "bytes", total)
	return Result{
		Outcome:   Copied,
		Filtered:  out,
		Records:   records,
		Bytes:     total,
		SerialSet: serialSet,
	}
}
