package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/demos"
)

// runDemoCmd runs the named demos, in the order given.
func runDemoCmd(ctx context.Context, args []string, env *Environment) error {
	f := &demoFlags{}
	names, err := parseFlagSet(newDemoFlagSet(f), args)
	if err != nil {
		return err
	}

	if f.list {
		printDemoList(env.Stdout)
		return nil
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: demo name required", ErrUsage)
	}

	list := make([]demos.Demo, 0, len(names))
	for _, name := range names {
		d, err := demos.Lookup(name)
		if err != nil {
			return err
		}
		list = append(list, d)
	}

	s, err := loadSettings(f.common, f.render, f.page, env)
	if err != nil {
		return err
	}
	if f.assetPath != "" {
		s.cfg.Assets.BasePath = f.assetPath
	}

	return runDemos(ctx, list, s, s.outputDir(f.output, "."), env)
}

// runDemos runs list sequentially into dir with one shared renderer and
// stops at the first failure.
func runDemos(ctx context.Context, list []demos.Demo, s *settings, dir string, env *Environment) error {
	samples, err := s.samples()
	if err != nil {
		return err
	}

	now := env.Now()
	r, err := pdftour.NewRenderer(s.rendererOptions(now)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	progress := io.Discard
	if !s.quiet {
		progress = env.Stdout
	}

	demoEnv := demos.Env{
		Dir:      dir,
		Samples:  samples,
		Renderer: r,
		Now:      now,
		Progress: progress,
		SelfDoc:  s.selfDocOptions(),
	}

	for _, d := range list {
		start := time.Now()
		out, err := d.Run(ctx, demoEnv)
		if err != nil {
			return err
		}
		switch {
		case s.quiet:
		case s.verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", d.Name, out, time.Since(start).Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", out)
		}
	}
	return nil
}

// selfDocOptions returns the self-documenting demo options of the config.
func (s *settings) selfDocOptions() demos.SelfDocOptions {
	sd := s.cfg.SelfDoc
	return demos.SelfDocOptions{
		Title:     sd.Title,
		PageInfo:  sd.PageInfo,
		Date:      sd.Date,
		SnipLines: sd.SnipLines,
		Exclude:   sd.Exclude,
		Page:      s.pagePtr(),
	}
}

// printDemoList prints every demo with its summary, in run order.
func printDemoList(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range demos.All() {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Summary)
	}
	_ = tw.Flush()
}
