package runner

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/yaklabco/snapline/pkg/source"
)

// FileOutcome is the scan result for one file.
type FileOutcome struct {
	// Path is the scanned file.
	Path string

	// Sites are the assertion sites found, in source order.
	Sites []Site

	// Err is set when the file could not be read or parsed.
	Err error
}

// Stats aggregates a scan run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesWithSites  int
	Sites           int
	Recorded        int
	Pending         int
}

// Result is the outcome of scanning a test tree.
type Result struct {
	// Files holds one outcome per discovered file, sorted by path.
	Files []FileOutcome

	// Stats aggregates the run.
	Stats Stats
}

// Run discovers test files under opts.Paths and scans them concurrently.
// The result is deterministic: outcomes are sorted by path regardless of
// worker scheduling.
func Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	names := opts.effectiveNames()
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, workCh, outCh, names)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case workCh <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	for outcome := range outCh {
		result.Files = append(result.Files, outcome)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	for _, outcome := range result.Files {
		result.Stats.FilesProcessed++
		if len(outcome.Sites) > 0 {
			result.Stats.FilesWithSites++
		}
		for _, site := range outcome.Sites {
			result.Stats.Sites++
			if site.Recorded() {
				result.Stats.Recorded++
			} else {
				result.Stats.Pending++
			}
		}
	}

	return result, nil
}

func worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, names map[string]bool) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path}
		content, err := os.ReadFile(path)
		if err != nil {
			outcome.Err = err
		} else if f, parseErr := source.Parse(path, content); parseErr != nil {
			outcome.Err = parseErr
		} else {
			outcome.Sites = ScanFile(f, names)
		}

		select {
		case outCh <- outcome:
		case <-ctx.Done():
			return
		}
	}
}
