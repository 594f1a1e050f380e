package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/privdiag/internal/model"
)

// Scanner scans one device source (snapshot path or adb:<serial>)
type Scanner interface {
	ScanSource(ctx context.Context, source string) (*model.DeviceReport, error)
}

// ScanJob represents one device scan
type ScanJob struct {
	Index   int
	Source  string
	Scanner Scanner
}

// Execute executes the scan job
func (j *ScanJob) Execute(ctx context.Context) Result {
	report, err := j.Scanner.ScanSource(ctx, j.Source)
	if err != nil {
		return &ScanResult{Index: j.Index, Source: j.Source, Error: err}
	}
	return &ScanResult{Index: j.Index, Source: j.Source, Report: report}
}

// ScanResult represents the result of a scan job
type ScanResult struct {
	Index  int
	Source string
	Report *model.DeviceReport
	Error  error
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Error
}

// BatchProcessor scans many devices concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(scanner Scanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
	}
}

// ProcessSources scans every source and returns results in input order
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ScanResult {
	if len(sources) == 0 {
		return []*ScanResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, source := range sources {
		pool.Submit(&ScanJob{
			Index:   i,
			Source:  source,
			Scanner: b.scanner,
		})
	}

	results := pool.Wait()

	ordered := make([]*ScanResult, len(sources))
	for _, result := range results {
		r := result.(*ScanResult)
		ordered[r.Index] = r
	}

	// Jobs dropped by a cancelled context still get a result
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &ScanResult{Index: i, Source: sources[i], Error: err}
		}
	}

	return ordered
}

// ProcessFile reads sources from a file and scans them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads scan sources from a file (one per line)
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
