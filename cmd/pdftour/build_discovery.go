package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/storyfile"
)

// StoryToBuild represents a single story file to render.
type StoryToBuild struct {
	InputPath  string
	OutputPath string
}

// isStoryFile reports whether path ends in the story file extension.
func isStoryFile(path string) bool {
	return fileutil.HasSuffixFold(path, storyfile.Extension)
}

// discoverStories finds all story files to build.
func discoverStories(inputPath, outputDir string) ([]StoryToBuild, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !isStoryFile(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Base(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []StoryToBuild{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []StoryToBuild
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isStoryFile(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, StoryToBuild{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for a story file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := fileutil.ReplaceSuffixFold(filepath.Base(inputPath), storyfile.Extension, ".pdf")

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if baseInputDir == "" && fileutil.HasSuffixFold(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > pdftour.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, pdftour.MaxPoolSize)
	}
	return nil
}
