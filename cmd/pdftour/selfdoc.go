package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdftour/internal/demos"
)

// runSelfDocCmd documents a directory: every source, text file and PDF in
// it, written to 99_self_document.pdf inside that directory.
func runSelfDocCmd(ctx context.Context, args []string, env *Environment) error {
	f := &selfDocFlags{}
	rest, err := parseFlagSet(newSelfDocFlagSet(f), args)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: selfdoc takes at most one directory", ErrUsage)
	}
	dir := "."
	if len(rest) == 1 {
		dir = rest[0]
	}

	s, err := loadSettings(f.common, f.render, f.page, env)
	if err != nil {
		return err
	}
	mergeSelfDocFlags(f, s)
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	d, err := demos.Lookup(demos.SelfDocument)
	if err != nil {
		return err
	}
	return runDemos(ctx, []demos.Demo{d}, s, dir, env)
}

// mergeSelfDocFlags merges the selfdoc flags into the config.
func mergeSelfDocFlags(f *selfDocFlags, s *settings) {
	sd := &s.cfg.SelfDoc
	if f.title != "" {
		sd.Title = f.title
	}
	if f.pageInfo != "" {
		sd.PageInfo = f.pageInfo
	}
	if f.date != "" {
		sd.Date = f.date
	}
	if f.snip != 0 {
		sd.SnipLines = f.snip
	}
	if f.exclude != nil {
		sd.Exclude = f.exclude
	}
}
