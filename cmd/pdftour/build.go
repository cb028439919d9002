package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/storyfile"
)

// ErrRendererInit indicates the pool could not provide a renderer.
var ErrRendererInit = errors.New("failed to initialize renderer")

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() pdftour.Renderer
	Release(pdftour.Renderer)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*pdftour.RendererPool)(nil)

// BuildResult holds the outcome of a single story build.
type BuildResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runBuildCmd renders one story file, or every story file under a
// directory, on a pool of renderers.
func runBuildCmd(ctx context.Context, args []string, env *Environment) error {
	f := &buildFlags{}
	rest, err := parseFlagSet(newBuildFlagSet(f), args)
	if err != nil {
		return err
	}
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if len(rest) == 0 {
		return ErrNoInput
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: build takes one file or directory", ErrUsage)
	}

	s, err := loadSettings(f.common, f.render, f.page, env)
	if err != nil {
		return err
	}

	files, err := discoverStories(rest[0], s.outputDir(f.output, ""))
	if err != nil {
		return fmt.Errorf("discovering story files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s files found in %s", ErrNoInput, storyfile.Extension, rest[0])
	}

	workers := f.workers
	if workers == 0 {
		workers = s.cfg.Render.Workers
	}
	size := min(pdftour.ResolvePoolSize(workers), len(files))
	if s.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", size)
	}

	now := env.Now()
	pool, err := pdftour.NewRendererPool(size, s.rendererOptions(now)...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	opts := storyfile.Options{Now: now, Page: s.pagePtr()}
	results := buildBatch(ctx, pool, files, opts)

	failed := printBuildResults(results, s.quiet, s.verbose, env)
	if failed > 0 {
		return &batchError{failed: failed, total: len(results), noun: "build(s)", first: firstError(results)}
	}
	return nil
}

// buildBatch processes files concurrently using the renderer pool.
func buildBatch(ctx context.Context, pool Pool, files []StoryToBuild, opts storyfile.Options) []BuildResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]BuildResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r := pool.Acquire()
			if r == nil {
				// Renderer creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = BuildResult{InputPath: files[idx].InputPath, Err: ErrRendererInit}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = BuildResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = buildFile(ctx, r, files[idx], opts)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// buildFile renders a single story file and returns the result.
func buildFile(ctx context.Context, r pdftour.Renderer, f StoryToBuild, opts storyfile.Options) BuildResult {
	start := time.Now()
	result := BuildResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	done := func(err error) BuildResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	doc, err := storyfile.Load(f.InputPath, opts)
	if err != nil {
		return done(err)
	}

	if err := fileutil.EnsureParentDir(f.OutputPath); err != nil {
		return done(fmt.Errorf("%w: %v", ErrOutputDir, err))
	}

	pdf, err := r.Render(ctx, doc)
	if err != nil {
		return done(err)
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, pdf, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWritePDF, err))
	}
	return done(nil)
}

// countFailed tallies failed builds.
func countFailed(results []BuildResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func firstError(results []BuildResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printBuildResults outputs build results and returns the failure count.
func printBuildResults(results []BuildResult, quiet, verbose bool, env *Environment) int {
	failed := countFailed(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	return failed
}
