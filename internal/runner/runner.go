// Package runner launches a batch of independent processes, one per task,
// without serializing them. Callers may walk away (fire and forget) or wait
// for every process and collect the results.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-pdftour/internal/process"
)

// RunIDEnv is the environment variable carrying the batch id to children.
const RunIDEnv = "PDFTOUR_RUN_ID"

// Sentinel errors.
var (
	ErrStart      = errors.New("cannot start task")
	ErrTaskFailed = errors.New("task failed")
	ErrNoTasks    = errors.New("no tasks to run")
)

// Task is one process to launch.
type Task struct {
	Name string
	Path string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is added to the inherited environment.
	Env []string
}

// Options configures Launch.
type Options struct {
	// RunID identifies the batch; empty generates a random UUID.
	RunID string
	// Stdout and Stderr receive the children's output. Nil inherits the
	// parent's.
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of one task.
type Result struct {
	Name     string
	PID      int
	Err      error
	Duration time.Duration
}

// Batch is a set of running processes.
type Batch struct {
	runID string
	procs []*proc
}

type proc struct {
	task  Task
	cmd   *exec.Cmd
	start time.Time
	done  chan struct{}

	// Set before done is closed.
	err error
	end time.Time
}

// Launch starts every task as its own process, in its own process group,
// and returns without waiting for any of them. A task that cannot start is
// recorded in its Result; the others still run.
func Launch(ctx context.Context, tasks []Task, opts Options) (*Batch, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	stdout := outputWriter(opts.Stdout, os.Stdout)
	stderr := outputWriter(opts.Stderr, os.Stderr)

	b := &Batch{runID: runID, procs: make([]*proc, 0, len(tasks))}
	for _, task := range tasks {
		p := &proc{task: task, done: make(chan struct{})}
		b.procs = append(b.procs, p)

		if err := ctx.Err(); err != nil {
			p.fail(err)
			continue
		}

		cmd := exec.Command(task.Path, task.Args...) // #nosec G204 -- tasks are built by the caller
		cmd.Dir = task.Dir
		cmd.Env = append(append(os.Environ(), RunIDEnv+"="+runID), task.Env...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		process.SetProcessGroup(cmd)

		p.start = time.Now()
		if err := cmd.Start(); err != nil {
			p.fail(fmt.Errorf("%w: %s: %v", ErrStart, task.Name, err))
			continue
		}
		p.cmd = cmd
		go p.wait()
	}
	return b, nil
}

func (p *proc) fail(err error) {
	p.err = err
	p.end = p.start
	close(p.done)
}

func (p *proc) wait() {
	err := p.cmd.Wait()
	p.end = time.Now()
	if err != nil {
		p.err = fmt.Errorf("%w: %s: %v", ErrTaskFailed, p.task.Name, err)
	}
	close(p.done)
}

// RunID returns the id exported to the children as RunIDEnv.
func (b *Batch) RunID() string {
	return b.runID
}

// Len returns the number of tasks.
func (b *Batch) Len() int {
	return len(b.procs)
}

// Started returns the name and PID of every task that started, in task
// order.
func (b *Batch) Started() []Result {
	var out []Result
	for _, p := range b.procs {
		if p.cmd != nil {
			out = append(out, Result{Name: p.task.Name, PID: p.cmd.Process.Pid})
		}
	}
	return out
}

// StartFailures returns the tasks that could not be started, in task
// order. Their errors are already final, so it does not block.
func (b *Batch) StartFailures() []Result {
	var out []Result
	for _, p := range b.procs {
		if p.cmd == nil {
			<-p.done
			out = append(out, Result{Name: p.task.Name, Err: p.err})
		}
	}
	return out
}

// Wait blocks until every process has exited and returns one result per
// task, in task order. It may be called more than once.
func (b *Batch) Wait() []Result {
	results := make([]Result, len(b.procs))
	for i, p := range b.procs {
		<-p.done
		r := Result{Name: p.task.Name, Err: p.err, Duration: p.end.Sub(p.start)}
		if p.cmd != nil {
			r.PID = p.cmd.Process.Pid
		}
		results[i] = r
	}
	return results
}

// Kill kills the process group of every task still running.
func (b *Batch) Kill() {
	for _, p := range b.procs {
		if p.cmd == nil {
			continue
		}
		select {
		case <-p.done:
			continue
		default:
		}
		process.KillProcessGroup(p.cmd.Process.Pid)
		_ = p.cmd.Process.Kill()
	}
}

// Failed returns the results holding an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Discover returns the sorted files of dir matching pattern, minus the
// base names in exclude (typically the runner script itself).
func Discover(dir, pattern string, exclude ...string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if slices.Contains(exclude, filepath.Base(m)) {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	slices.Sort(files)
	return files, nil
}

// ScriptTasks builds one task per script, run from the script's
// directory. With a command such as "python3 -u", each script is passed as
// its last argument; an empty command executes the script directly.
func ScriptTasks(scripts []string, command string) []Task {
	fields := strings.Fields(command)
	tasks := make([]Task, 0, len(scripts))
	for _, s := range scripts {
		t := Task{Name: filepath.Base(s), Dir: filepath.Dir(s)}
		if len(fields) == 0 {
			t.Path = "." + string(filepath.Separator) + t.Name
		} else {
			t.Path = fields[0]
			t.Args = append(slices.Clone(fields[1:]), filepath.Base(s))
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// outputWriter returns w, or def when w is nil. Writers shared by several
// children are serialized unless they are files.
func outputWriter(w io.Writer, def *os.File) io.Writer {
	if w == nil {
		return def
	}
	if f, ok := w.(*os.File); ok {
		return f
	}
	return &lockedWriter{w: w}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
