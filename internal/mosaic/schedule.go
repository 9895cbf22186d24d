package mosaic

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism is the number of sections used when the caller gives none.
const DefaultParallelism = 4

// Section is a contiguous range of canvas rows owned by one worker.
type Section struct {
	Index  int `json:"index"`
	YStart int `json:"y_start"` // inclusive
	YEnd   int `json:"y_end"`   // exclusive
}

// Rows returns the number of rows in the section.
func (s Section) Rows() int {
	return s.YEnd - s.YStart
}

// ProgressFunc receives the completed fraction in [0,1] and a status line.
//
// Render only calls it from the goroutine that called Render, so it need not
// be safe for concurrent use.
type ProgressFunc func(fraction float64, status string)

// Sections splits [0, height) into parallelism contiguous, disjoint ranges.
// Every section gets height/parallelism rows and the last also takes the
// remainder. parallelism <= 0 selects DefaultParallelism; values above height
// are clamped so no section is empty.
func Sections(height, parallelism int) []Section {
	if height <= 0 {
		return nil
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	parallelism = min(parallelism, height)

	per := height / parallelism
	sections := make([]Section, parallelism)
	for i := range sections {
		end := (i + 1) * per
		if i == parallelism-1 {
			end = height
		}
		sections[i] = Section{Index: i, YStart: i * per, YEnd: end}
	}
	return sections
}

// runSections runs work once per section, each on its own goroutine, and
// blocks until all of them return.
//
// Progress is reported at 0 before launch, after every completed section, and
// at 1 once everything joined successfully. A failing or panicking section
// does not stop its siblings; the first failure is returned as a
// *SectionError after the join.
func runSections(sections []Section, work func(Section) error, progress ProgressFunc) error {
	report := func(fraction float64, status string) {
		if progress != nil {
			progress(fraction, status)
		}
	}

	total := len(sections)
	report(0, "Rendering mosaic: 0%")

	done := make(chan Section, total)
	var g errgroup.Group
	for _, sec := range sections {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = sectionFailure(sec, fmt.Errorf("panic: %v", r))
				}
				done <- sec
			}()
			if werr := work(sec); werr != nil {
				return sectionFailure(sec, werr)
			}
			return nil
		})
	}

	for completed := 1; completed <= total; completed++ {
		sec := <-done
		fraction := float64(completed) / float64(total)
		log.WithFields(log.Fields{
			"section": sec.Index,
			"y_start": sec.YStart,
			"y_end":   sec.YEnd,
			"done":    completed,
			"total":   total,
		}).Debug("Section finished")
		report(fraction, fmt.Sprintf("Rendering mosaic: %d%%", int(fraction*100)))
	}

	if err := g.Wait(); err != nil {
		return err
	}
	report(1, "Rendering complete")
	return nil
}

func sectionFailure(sec Section, err error) *SectionError {
	return &SectionError{Index: sec.Index, YStart: sec.YStart, YEnd: sec.YEnd, Err: err}
}
