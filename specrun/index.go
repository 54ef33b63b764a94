package specrun

import (
	"errors"
	"runtime"
	"sort"
	"sync"
)

// Index is a SymbolIndex over the PHP files of a workspace.
type Index struct {
	symbols map[string][]Location
}

// BuildIndex parses every PHP file under the workspace folders and records
// namespace, class, method and function declarations.
func BuildIndex(opts IndexOptions) (*Index, error) {
	if len(opts.Folders) == 0 {
		return nil, errors.New("at least one folder is required")
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 2 * 1024 * 1024
	}

	language := Get("php")
	if language == nil {
		return nil, errors.New("php language not registered")
	}

	query, err := compileQuery(language.SymbolsQuery(), language)
	if err != nil {
		return nil, err
	}

	sc := newScanner(scannerConfig{
		roots:    opts.Folders,
		language: language,
		maxBytes: opts.MaxBytes,
	})
	files, err := sc.collect()
	if err != nil {
		return nil, err
	}

	idx := &Index{symbols: make(map[string][]Location)}
	for _, l := range runWorkers(query, files, opts.Jobs, extractLocations) {
		idx.symbols[l.Symbol] = append(idx.symbols[l.Symbol], l)
	}
	for _, locations := range idx.symbols {
		sortLocations(locations)
	}
	logger.Debug("index built", "files", len(files), "symbols", len(idx.symbols))
	return idx, nil
}

// Lookup returns every declaration of name, ordered by file and position.
func (i *Index) Lookup(name string) []Location {
	return i.symbols[name]
}

// runWorkers matches files in parallel and applies process to the matches of
// each. Unreadable files are skipped. Result order is not deterministic.
func runWorkers[T any](
	query *compiledQuery,
	files []FileJob,
	jobs int,
	process func(job FileJob, matches []QueryMatch, source []byte) []T,
) []T {
	if len(files) == 0 {
		return nil
	}

	results := make(chan T, 128)
	jobQueue := make(chan FileJob, 128)
	var wg sync.WaitGroup

	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	worker := func() {
		defer wg.Done()
		m := query.matcher()
		for job := range jobQueue {
			matches, source, err := m.matchFile(job)
			if err != nil {
				logger.Debug("skip file", "file", job.DisplayPath, "error", err)
				continue
			}
			for _, r := range process(job, matches, source) {
				results <- r
			}
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		for _, f := range files {
			jobQueue <- f
		}
		close(jobQueue)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []T
	for r := range results {
		all = append(all, r)
	}
	return all
}

// captureKinds maps name captures of the symbols query to location kinds.
var captureKinds = map[string]string{
	SelectorNamespace:  "namespace",
	SelectorClass:      "class",
	SelectorMethodName: "method",
	SelectorFunction:   "function",
}

func extractLocations(job FileJob, matches []QueryMatch, _ []byte) []Location {
	var locations []Location
	for _, m := range matches {
		for _, c := range m.Captures {
			kind, ok := captureKinds[c.Name]
			if !ok {
				continue
			}
			if kind != "namespace" && !ValidIdentifier(c.Text) {
				continue
			}
			locations = append(locations, Location{
				File:     job.AbsPath,
				Symbol:   c.Text,
				Kind:     kind,
				Position: c.Span.Range.Start,
			})
		}
	}
	return locations
}

func sortLocations(locations []Location) {
	sort.Slice(locations, func(i, j int) bool {
		if locations[i].File != locations[j].File {
			return locations[i].File < locations[j].File
		}
		if locations[i].Position.Line != locations[j].Position.Line {
			return locations[i].Position.Line < locations[j].Position.Line
		}
		return locations[i].Position.Column < locations[j].Position.Column
	})
}
