package main

import (
	"fmt"

	"github.com/alnah/go-pdftour/internal/assets"
)

// runSamplesCmd writes the sample inputs and images into a directory.
func runSamplesCmd(args []string, env *Environment) error {
	f := &samplesFlags{}
	rest, err := parseFlagSet(newSamplesFlagSet(f), args)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: samples takes at most one directory", ErrUsage)
	}

	s, err := loadSettings(f.common, renderFlags{}, pageFlags{}, env)
	if err != nil {
		return err
	}
	dir := s.outputDir("", ".")
	if len(rest) == 1 {
		dir = rest[0]
	}

	samples, err := s.samples()
	if err != nil {
		return err
	}
	written, err := assets.WriteSamples(dir, samples, f.force)
	if err != nil {
		return err
	}

	if s.quiet {
		return nil
	}
	for _, path := range written {
		fmt.Fprintf(env.Stdout, "Wrote %s\n", path)
	}
	if len(written) == 0 {
		fmt.Fprintf(env.Stdout, "All samples already present in %s (use --force to overwrite)\n", dir)
	}
	return nil
}
