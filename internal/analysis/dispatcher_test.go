package analysis

import (
	"errors"
	"reflect"
	"testing"

	"github.com/i474232898/temperature-data-analysis/internal/dataset"
)

// interleave mixes two city series so partitioning has real work to do.
func interleave(a, b []dataset.Record) []dataset.Record {
	out := make([]dataset.Record, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

func twoCityFixture() []dataset.Record {
	oslo := repeat(20.0, 65)
	oslo[35] = 100.0
	bergen := repeat(5.0, 65)
	bergen[40] = -60.0
	return interleave(series("Oslo", oslo...), series("Bergen", bergen...))
}

func TestRunModesProduceIdenticalResults(t *testing.T) {
	records := twoCityFixture()

	for _, workers := range []int{1, 4} {
		d := NewDispatcher(DefaultWindow, workers)

		seq, seqTiming, err := d.Run(records, ModeSequential)
		if err != nil {
			t.Fatalf("sequential run failed: %v", err)
		}
		con, conTiming, err := d.Run(records, ModeConcurrent)
		if err != nil {
			t.Fatalf("concurrent run failed: %v", err)
		}

		if !reflect.DeepEqual(seq, con) {
			t.Fatalf("workers=%d: modes disagree on output", workers)
		}
		if len(seq) != len(records) {
			t.Fatalf("workers=%d: expected %d records, got %d", workers, len(records), len(seq))
		}
		if seqTiming.Strategy != string(ModeSequential) || conTiming.Strategy != string(ModeConcurrent) {
			t.Fatalf("workers=%d: unexpected strategy labels %q/%q", workers, seqTiming.Strategy, conTiming.Strategy)
		}
	}
}

func TestRunMergesSortedByCityThenTime(t *testing.T) {
	records := twoCityFixture()

	d := NewDispatcher(DefaultWindow, 2)
	out, _, err := d.Run(records, ModeConcurrent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Bergen sorts before Oslo, so its whole block comes first.
	if out[0].City != "Bergen" || out[64].City != "Bergen" || out[65].City != "Oslo" {
		t.Fatalf("unexpected city blocks: %q, %q, %q", out[0].City, out[64].City, out[65].City)
	}
	for i := 1; i < len(out); i++ {
		if out[i].City != out[i-1].City {
			continue
		}
		if out[i].Timestamp.Before(out[i-1].Timestamp) {
			t.Fatalf("timestamps out of order at record %d", i)
		}
	}
}

func TestRunKeepsCityWindowsIsolated(t *testing.T) {
	records := twoCityFixture()

	d := NewDispatcher(DefaultWindow, 2)
	out, _, err := d.Run(records, ModeSequential)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var flagged []float64
	for _, ann := range out {
		if ann.Anomaly {
			flagged = append(flagged, ann.Temperature)
		}
	}
	// One spike per city; neighbouring city's records must not be dragged in.
	if len(flagged) != 2 || flagged[0] != -60.0 || flagged[1] != 100.0 {
		t.Fatalf("expected exactly the two spikes flagged, got %v", flagged)
	}
}

func TestRunUnknownMode(t *testing.T) {
	d := NewDispatcher(DefaultWindow, 2)
	_, _, err := d.Run(twoCityFixture(), Mode("parallel-ish"))
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestRunEmptyInput(t *testing.T) {
	d := NewDispatcher(DefaultWindow, 2)
	for _, mode := range []Mode{ModeSequential, ModeConcurrent} {
		out, _, err := d.Run(nil, mode)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if len(out) != 0 {
			t.Fatalf("%s: expected empty output, got %d records", mode, len(out))
		}
	}
}

func TestRunConcurrentBatchFailure(t *testing.T) {
	d := NewDispatcher(DefaultWindow, 4)
	d.detect = func(recs []dataset.Record) []AnnotatedRecord {
		if recs[0].City == "Bergen" {
			panic("boom")
		}
		out := make([]AnnotatedRecord, len(recs))
		for i, rec := range recs {
			out[i] = AnnotatedRecord{Record: rec}
		}
		return out
	}

	out, _, err := d.Run(twoCityFixture(), ModeConcurrent)
	if !errors.Is(err, ErrBatchFailed) {
		t.Fatalf("expected ErrBatchFailed, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no partial results, got %d records", len(out))
	}
}

func TestCompare(t *testing.T) {
	records := twoCityFixture()

	d := NewDispatcher(DefaultWindow, 4)
	annotated, cmp, err := d.Compare(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmp.Records != len(records) {
		t.Fatalf("expected %d records in report, got %d", len(records), cmp.Records)
	}
	if cmp.Anomalies != 2 {
		t.Fatalf("expected 2 anomalies in report, got %d", cmp.Anomalies)
	}
	if cmp.Sequential.Strategy != string(ModeSequential) || cmp.Concurrent.Strategy != string(ModeConcurrent) {
		t.Fatalf("unexpected strategy labels %q/%q", cmp.Sequential.Strategy, cmp.Concurrent.Strategy)
	}
	if len(annotated) != len(records) {
		t.Fatalf("expected %d annotated records, got %d", len(records), len(annotated))
	}
}
