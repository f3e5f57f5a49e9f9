package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/drape/config"
)

// csvFile appends gocsv records to a file, writing the header once.
type csvFile struct {
	name          string
	file          *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{name: name, file: f}, nil
}

// write marshals records; in must be a slice of csv-tagged structs.
func (c *csvFile) write(in any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(in, c.file); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(in, c.file); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager handles run output: cloth stats, perf and bookmark CSVs plus
// the effective configuration.
type OutputManager struct {
	dir       string
	stats     *csvFile
	perf      *csvFile
	bookmarks *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	stats, err := createCSV(dir, "stats.csv")
	if err != nil {
		return nil, err
	}
	perf, err := createCSV(dir, "perf.csv")
	if err != nil {
		stats.file.Close()
		return nil, err
	}
	bookmarks, err := createCSV(dir, "bookmarks.csv")
	if err != nil {
		stats.file.Close()
		perf.file.Close()
		return nil, err
	}

	return &OutputManager{dir: dir, stats: stats, perf: perf, bookmarks: bookmarks}, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends cloth stats rows to stats.csv.
func (om *OutputManager) WriteStats(stats ...ClothStats) error {
	if om == nil || len(stats) == 0 {
		return nil
	}
	return om.stats.write(stats)
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, step int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(step)})
}

// WriteBookmarks appends bookmark records to bookmarks.csv.
func (om *OutputManager) WriteBookmarks(bookmarks ...Bookmark) error {
	if om == nil || len(bookmarks) == 0 {
		return nil
	}
	return om.bookmarks.write(bookmarks)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.stats, om.perf, om.bookmarks} {
		if c == nil || c.file == nil {
			continue
		}
		if err := c.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
