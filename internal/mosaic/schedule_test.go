package mosaic

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSections(t *testing.T) {
	tests := []struct {
		name        string
		height      int
		parallelism int
		want        []Section
	}{
		{"remainder to last", 10, 4, []Section{{0, 0, 2}, {1, 2, 4}, {2, 4, 6}, {3, 6, 10}}},
		{"even split", 8, 2, []Section{{0, 0, 4}, {1, 4, 8}}},
		{"single", 7, 1, []Section{{0, 0, 7}}},
		{"clamped to height", 3, 8, []Section{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}}},
		{"default parallelism", 8, 0, []Section{{0, 0, 2}, {1, 2, 4}, {2, 4, 6}, {3, 6, 8}}},
		{"empty canvas", 0, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sections(tt.height, tt.parallelism)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sections, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("section %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSections_Partition(t *testing.T) {
	for height := 1; height <= 40; height++ {
		for p := 1; p <= 12; p++ {
			sections := Sections(height, p)
			next := 0
			for i, s := range sections {
				if s.Index != i {
					t.Fatalf("h=%d p=%d: section %d has index %d", height, p, i, s.Index)
				}
				if s.YStart != next {
					t.Fatalf("h=%d p=%d: gap or overlap at section %d (%d != %d)", height, p, i, s.YStart, next)
				}
				if s.Rows() <= 0 {
					t.Fatalf("h=%d p=%d: empty section %d", height, p, i)
				}
				next = s.YEnd
			}
			if next != height {
				t.Fatalf("h=%d p=%d: sections end at %d", height, p, next)
			}
		}
	}
}

type progressRecorder struct {
	mu       sync.Mutex
	fraction []float64
	status   []string
}

func (r *progressRecorder) record(fraction float64, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fraction = append(r.fraction, fraction)
	r.status = append(r.status, status)
}

func TestRunSections_Progress(t *testing.T) {
	sections := Sections(20, 4)
	var ran atomic.Int32
	var rec progressRecorder

	err := runSections(sections, func(Section) error {
		ran.Add(1)
		return nil
	}, rec.record)
	if err != nil {
		t.Fatalf("runSections failed: %v", err)
	}

	if ran.Load() != 4 {
		t.Errorf("ran %d sections, want 4", ran.Load())
	}
	if len(rec.fraction) != len(sections)+2 {
		t.Fatalf("got %d progress calls, want %d", len(rec.fraction), len(sections)+2)
	}
	if rec.fraction[0] != 0 {
		t.Errorf("first progress: got %v, want 0", rec.fraction[0])
	}
	last := len(rec.fraction) - 1
	if rec.fraction[last] != 1 || rec.status[last] != "Rendering complete" {
		t.Errorf("last progress: got %v %q, want 1 \"Rendering complete\"", rec.fraction[last], rec.status[last])
	}
	for i := 1; i < len(rec.fraction); i++ {
		if rec.fraction[i] < rec.fraction[i-1] {
			t.Errorf("progress went backwards: %v", rec.fraction)
			break
		}
	}
}

func TestRunSections_NilProgress(t *testing.T) {
	if err := runSections(Sections(5, 2), func(Section) error { return nil }, nil); err != nil {
		t.Fatalf("runSections failed: %v", err)
	}
}

func TestRunSections_FailureJoinsSiblings(t *testing.T) {
	sections := Sections(40, 4)
	boom := errors.New("boom")
	var finished atomic.Int32
	var rec progressRecorder

	err := runSections(sections, func(s Section) error {
		defer finished.Add(1)
		if s.Index == 2 {
			return boom
		}
		return nil
	}, rec.record)

	if finished.Load() != 4 {
		t.Errorf("finished %d sections before returning, want 4", finished.Load())
	}
	if !errors.Is(err, ErrWorkerFailure) {
		t.Fatalf("got %v, want ErrWorkerFailure", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error does not wrap the cause: %v", err)
	}

	var se *SectionError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want *SectionError", err)
	}
	if se.Index != 2 || se.YStart != 20 || se.YEnd != 30 {
		t.Errorf("failed section: got %+v, want index 2 rows 20-30", se)
	}
	if !strings.Contains(se.Error(), "rows 20-30") {
		t.Errorf("error message %q does not name the rows", se.Error())
	}

	for _, s := range rec.status {
		if s == "Rendering complete" {
			t.Error("completion reported despite failure")
		}
	}
}

func TestRunSections_PanicBecomesSectionError(t *testing.T) {
	sections := Sections(9, 3)
	var finished atomic.Int32

	err := runSections(sections, func(s Section) error {
		defer finished.Add(1)
		if s.Index == 1 {
			panic("index out of range")
		}
		return nil
	}, nil)

	if finished.Load() != 3 {
		t.Errorf("finished %d sections, want 3", finished.Load())
	}
	var se *SectionError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *SectionError", err)
	}
	if se.Index != 1 {
		t.Errorf("Index: got %d, want 1", se.Index)
	}
	if !strings.Contains(se.Err.Error(), "panic: index out of range") {
		t.Errorf("cause: got %q", se.Err.Error())
	}
}
