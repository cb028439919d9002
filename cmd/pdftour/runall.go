package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-pdftour/internal/demos"
	"github.com/alnah/go-pdftour/internal/runner"
)

// batchError reports a batch with failures. It unwraps to the first
// failure so the exit code follows it.
type batchError struct {
	failed int
	total  int
	noun   string
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d %s failed", e.failed, e.total, e.noun)
}

func (e *batchError) Unwrap() error { return e.first }

// runAllCmd launches every demo as its own pdftour process, or with --dir
// every script of a directory.
func runAllCmd(ctx context.Context, args []string, env *Environment) error {
	f := &runAllFlags{}
	rest, err := parseFlagSet(newRunAllFlagSet(f), args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: run-all takes no arguments", ErrUsage)
	}

	s, err := loadSettings(f.common, renderFlags{}, pageFlags{}, env)
	if err != nil {
		return err
	}
	mergeRunnerFlags(f, s)
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	exe, err := env.Executable()
	if err != nil {
		return fmt.Errorf("locating pdftour: %w", err)
	}

	var batches [][]runner.Task
	if f.dir != "" {
		scripts, err := runner.Discover(f.dir, s.cfg.Runner.Pattern, filepath.Base(exe))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		if len(scripts) == 0 {
			return fmt.Errorf("%w: no scripts matching %s in %s", ErrNoInput, s.cfg.Runner.Pattern, f.dir)
		}
		batches = [][]runner.Task{runner.ScriptTasks(scripts, s.cfg.Runner.Command)}
	} else {
		batches = demoTasks(exe, s.outputDir(f.output, "."), f.common, s.cfg.Runner.Detach)
	}

	runID := uuid.NewString()
	if s.verbose {
		fmt.Fprintf(env.Stderr, "Run id: %s\n", runID)
	}
	return launchBatches(ctx, batches, runID, s, env)
}

// mergeRunnerFlags merges the run-all flags into the config.
func mergeRunnerFlags(f *runAllFlags, s *settings) {
	r := &s.cfg.Runner
	if f.pattern != "" {
		r.Pattern = f.pattern
	}
	if f.command != "" {
		r.Command = f.command
	}
	if f.detach {
		r.Detach = true
	}
}

// demoTasks returns one `pdftour demo <name>` task per demo. When waiting,
// the self-documenting demo gets a batch of its own after the others so it
// finds their PDFs.
func demoTasks(exe, dir string, common commonFlags, detach bool) [][]runner.Task {
	var first, last []runner.Task
	for _, d := range demos.All() {
		args := []string{"demo", d.Name, "--output", dir}
		if common.config != "" {
			args = append(args, "--config", common.config)
		}
		if common.quiet {
			args = append(args, "--quiet")
		}
		task := runner.Task{Name: d.Name, Path: exe, Args: args}
		if d.Name == demos.SelfDocument && !detach {
			last = append(last, task)
			continue
		}
		first = append(first, task)
	}
	if len(last) == 0 {
		return [][]runner.Task{first}
	}
	return [][]runner.Task{first, last}
}

// launchBatches launches the batches one after the other. Detached, it
// returns once the processes started; otherwise it waits for each batch,
// killing it when ctx is cancelled, and reports every result.
func launchBatches(ctx context.Context, batches [][]runner.Task, runID string, s *settings, env *Environment) error {
	var (
		total  int
		failed []runner.Result
	)
	for _, tasks := range batches {
		b, err := runner.Launch(ctx, tasks, runner.Options{RunID: runID, Stdout: env.Stdout, Stderr: env.Stderr})
		if err != nil {
			return err
		}
		total += b.Len()

		if s.cfg.Runner.Detach {
			started := b.Started()
			if !s.quiet {
				for _, r := range started {
					fmt.Fprintf(env.Stdout, "Started %s (pid %d)\n", r.Name, r.PID)
				}
			}
			failures := b.StartFailures()
			for _, r := range failures {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Name, r.Err)
			}
			if len(failures) > 0 {
				return &batchError{failed: len(failures), total: b.Len(), noun: "task(s)", first: failures[0].Err}
			}
			continue
		}

		stop := context.AfterFunc(ctx, b.Kill)
		results := b.Wait()
		stop()

		for _, r := range results {
			switch {
			case r.Err != nil:
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Name, r.Err)
			case s.verbose:
				fmt.Fprintf(env.Stdout, "%s done (pid %d, %v)\n", r.Name, r.PID, r.Duration.Round(time.Millisecond))
			}
		}
		failed = append(failed, runner.Failed(results)...)

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if s.cfg.Runner.Detach {
		return nil
	}
	if !s.quiet && total > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", total-len(failed), len(failed))
	}
	if len(failed) > 0 {
		return &batchError{failed: len(failed), total: total, noun: "task(s)", first: failed[0].Err}
	}
	return nil
}
