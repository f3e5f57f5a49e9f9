package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkDiverged    BookmarkType = "diverged"
	BookmarkOverstretch BookmarkType = "overstretch"
	BookmarkStrainSpike BookmarkType = "strain_spike"
	BookmarkSettled     BookmarkType = "settled"
)

// Detector thresholds.
const (
	overstretchStrain = 0.25 // max strain that counts as overstretched
	spikeFactor       = 2.0  // p90 strain relative to the rolling average
	spikeFloor        = 0.01 // ignore spikes below this p90 strain
	settledWindows    = 4    // consecutive windows compared for settling
	settledCV         = 0.01 // max coefficient of variation of mean sag
)

// Bookmark marks a notable moment in one cloth's history.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Label       string       `csv:"label"`
	Steps       int          `csv:"steps"`
	SimTime     float64      `csv:"sim_time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"label", b.Label,
		"steps", b.Steps,
		"description", b.Description,
	)
}

// BookmarkDetector watches the stats of a single cloth window by window.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []ClothStats
	historySize int
	historyIdx  int
	historyFull bool

	diverged      bool
	overstretched bool
	settled       bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < settledWindows {
		historySize = settledWindows
	}
	return &BookmarkDetector{
		history:     make([]ClothStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats ClothStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkDiverged(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkOverstretch(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStrainSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats ClothStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []ClothStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]ClothStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func newBookmark(t BookmarkType, stats ClothStats, format string, args ...any) *Bookmark {
	return &Bookmark{
		Type:        t,
		Label:       stats.Label,
		Steps:       stats.Steps,
		SimTime:     stats.SimTime,
		Description: fmt.Sprintf(format, args...),
	}
}

func (bd *BookmarkDetector) checkDiverged(stats ClothStats) *Bookmark {
	if bd.diverged || stats.NonFinite == 0 {
		return nil
	}
	bd.diverged = true
	return newBookmark(BookmarkDiverged, stats, "%d points became non-finite", stats.NonFinite)
}

func (bd *BookmarkDetector) checkOverstretch(stats ClothStats) *Bookmark {
	over := stats.StrainMax > overstretchStrain
	// Trigger on the rising edge only
	defer func() { bd.overstretched = over }()
	if !over || bd.overstretched {
		return nil
	}
	return newBookmark(BookmarkOverstretch, stats, "Max strain %.3f exceeds %.2f", stats.StrainMax, overstretchStrain)
}

func (bd *BookmarkDetector) checkStrainSpike(stats ClothStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	p90 := make([]float64, len(history))
	for i, h := range history {
		p90[i] = h.StrainP90
	}
	avg := stat.Mean(p90, nil)
	if avg <= 0 {
		return nil
	}

	if stats.StrainP90 > avg*spikeFactor && stats.StrainP90 > spikeFloor {
		return newBookmark(BookmarkStrainSpike, stats,
			"P90 strain %.4f is %.1fx average (%.4f)", stats.StrainP90, stats.StrainP90/avg, avg)
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats ClothStats) *Bookmark {
	if bd.settled {
		return nil
	}
	history := bd.recent(settledWindows)
	if len(history) < settledWindows {
		return nil
	}

	sag := make([]float64, len(history))
	for i, h := range history {
		sag[i] = h.MeanSag
	}
	mean, std := stat.MeanStdDev(sag, nil)
	if mean <= 0 || std/mean > settledCV {
		return nil
	}

	bd.settled = true
	return newBookmark(BookmarkSettled, stats,
		"Mean sag %.4f steady over %d windows", mean, settledWindows)
}
