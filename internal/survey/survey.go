// Package survey deals large numbers of random hands in parallel and tallies
// how often each category comes up, optionally checking every hand against a
// reference categoriser.
package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handbits/internal/fileutil"
	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/internal/reference"
	"github.com/lox/handbits/internal/statistics"
	"github.com/lox/handbits/poker"
)

// ErrMismatch is returned when verification finds a hand the classifier and
// the oracle disagree on.
var ErrMismatch = errors.New("classifier disagrees with oracle")

// maxRecordedMismatches caps how many disagreeing hands a report keeps.
const maxRecordedMismatches = 20

// checkEvery is how many hands a worker deals between context checks.
const checkEvery = 1024

// Options controls a survey run
type Options struct {
	Hands   int
	Workers int // 0 means runtime.NumCPU, capped at 8
	Seed    int64
	Oracle  reference.Oracle // nil skips verification
}

// Mismatch records one hand on which verification failed
type Mismatch struct {
	Hand []poker.Card
	Got  poker.Category
	Want poker.Category
}

// Report is the outcome of a survey
type Report struct {
	Seed          int64
	Workers       int
	Hands         int
	Counts        [poker.NumCategories]int
	Verified      bool
	MismatchCount int
	Mismatches    []Mismatch
	Elapsed       time.Duration
}

// Row is one category line of a report. Low and High bound the 95%
// confidence interval of Frequency; Exact is the true probability.
type Row struct {
	Category  poker.Category `json:"category"`
	Count     int            `json:"count"`
	Frequency float64        `json:"frequency"`
	Low       float64        `json:"low"`
	High      float64        `json:"high"`
	Exact     float64        `json:"exact"`
}

// WithinInterval reports whether the exact probability lies inside the
// row's confidence interval.
func (r Row) WithinInterval() bool {
	return r.Exact >= r.Low && r.Exact <= r.High
}

// Rows returns one row per category, strongest first.
func (r Report) Rows() []Row {
	rows := make([]Row, 0, poker.NumCategories)
	for i, n := range r.Counts {
		c := poker.Category(i)
		p := statistics.Proportion{Successes: n, Trials: r.Hands}
		low, high := p.ConfidenceInterval95()
		rows = append(rows, Row{
			Category:  c,
			Count:     n,
			Frequency: p.Mean(),
			Low:       low,
			High:      high,
			Exact:     reference.ExactFrequency(c),
		})
	}
	slices.SortFunc(rows, func(a, b Row) int {
		return b.Category.Strength() - a.Category.Strength()
	})
	return rows
}

// Rate returns hands classified per second, or 0 if no time was measured.
func (r Report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Hands) / r.Elapsed.Seconds()
}

type reportJSON struct {
	Seed          int64     `json:"seed"`
	Workers       int       `json:"workers"`
	Hands         int       `json:"hands"`
	Verified      bool      `json:"verified"`
	MismatchCount int       `json:"mismatchCount"`
	Mismatches    []string  `json:"mismatches,omitempty"`
	ElapsedMs     int64     `json:"elapsedMs"`
	HandsPerSec   float64   `json:"handsPerSecond"`
	Categories    []rowJSON `json:"categories"`
}

type rowJSON struct {
	Row
	Name string `json:"name"`
}

// WriteJSON writes the report to path, replacing any existing file atomically.
func (r Report) WriteJSON(path string) error {
	out := reportJSON{
		Seed:          r.Seed,
		Workers:       r.Workers,
		Hands:         r.Hands,
		Verified:      r.Verified,
		MismatchCount: r.MismatchCount,
		ElapsedMs:     r.Elapsed.Milliseconds(),
		HandsPerSec:   r.Rate(),
	}
	for _, m := range r.Mismatches {
		out.Mismatches = append(out.Mismatches, fmt.Sprintf("%s: got %s, want %s", notation(m.Hand), m.Got, m.Want))
	}
	for _, row := range r.Rows() {
		out.Categories = append(out.Categories, rowJSON{Row: row, Name: row.Category.String()})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

func notation(hand []poker.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.Notation()
	}
	return strings.Join(parts, " ")
}

type workerResult struct {
	counts        [poker.NumCategories]int
	hands         int
	mismatchCount int
	mismatches    []Mismatch
}

// Runner runs surveys
type Runner struct {
	logger *log.Logger
	clock  quartz.Clock
}

// NewRunner creates a survey runner. The clock is used only for timing.
func NewRunner(logger *log.Logger, clock quartz.Clock) *Runner {
	return &Runner{
		logger: logger.WithPrefix("survey"),
		clock:  clock,
	}
}

// Run deals opts.Hands hands across the workers and tallies categories. The
// same seed and worker count always produce the same counts.
func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Hands < 0 {
		return Report{}, fmt.Errorf("hands must not be negative, got %d", opts.Hands)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}
	workers = max(min(workers, opts.Hands), 1)

	handsPerWorker := opts.Hands / workers
	remainder := opts.Hands % workers

	r.logger.Debug("Starting survey", "hands", opts.Hands, "workers", workers, "seed", opts.Seed, "verify", opts.Oracle != nil)
	start := r.clock.Now()

	parent := randutil.New(opts.Seed)
	g, ctx := errgroup.WithContext(ctx)
	results := make(chan workerResult, workers)

	for w := 0; w < workers; w++ {
		workerHands := handsPerWorker
		if w < remainder {
			workerHands++
		}
		// Each worker gets its own deck and rng
		deck := poker.NewDeck(randutil.Child(parent))

		g.Go(func() error {
			result, err := runWorker(ctx, deck, workerHands, opts.Oracle)
			if err != nil {
				return err
			}
			select {
			case results <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	report := Report{
		Seed:     opts.Seed,
		Workers:  workers,
		Verified: opts.Oracle != nil,
	}
	for result := range results {
		report.Hands += result.hands
		for i, n := range result.counts {
			report.Counts[i] += n
		}
		report.MismatchCount += result.mismatchCount
		for _, m := range result.mismatches {
			if len(report.Mismatches) < maxRecordedMismatches {
				report.Mismatches = append(report.Mismatches, m)
			}
		}
	}

	if err := g.Wait(); err != nil {
		r.logger.Warn("Survey aborted", "error", err, "hands", report.Hands)
		return report, fmt.Errorf("survey aborted: %w", err)
	}
	report.Elapsed = r.clock.Since(start)

	r.logger.Info("Survey complete", "hands", report.Hands, "workers", workers, "elapsed", report.Elapsed)

	if report.MismatchCount > 0 {
		r.logger.Error("Verification failed", "mismatches", report.MismatchCount)
		return report, fmt.Errorf("%d of %d hands: %w", report.MismatchCount, report.Hands, ErrMismatch)
	}
	return report, nil
}

func runWorker(ctx context.Context, deck *poker.Deck, hands int, oracle reference.Oracle) (workerResult, error) {
	var result workerResult
	for i := 0; i < hands; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		hand := deck.DealHand()
		classified, err := poker.Classify(hand)
		if err != nil {
			return result, err
		}
		result.counts[classified.Category]++
		result.hands++

		if oracle == nil {
			continue
		}
		want, err := oracle.Category(hand)
		if err != nil {
			return result, fmt.Errorf("oracle %s: %w", oracle.Name(), err)
		}
		if want != classified.Category {
			result.mismatchCount++
			if len(result.mismatches) < maxRecordedMismatches {
				result.mismatches = append(result.mismatches, Mismatch{Hand: hand, Got: classified.Category, Want: want})
			}
		}
	}
	return result, nil
}
