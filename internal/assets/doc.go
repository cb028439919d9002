// Package assets provides the sample inputs of the demos: texts, a CSV
// table, a stylesheet, a story file and two generated JPEG images.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in samples)
//	    ├── FilesystemLoader  - loads from a directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// The Resolver lets a user override one sample, for example with a longer
// CSV file, by dropping a file of the same name into the custom directory
// while keeping the other built-in samples.
//
// # Images
//
// The images are not stored: they are drawn on demand with
// golang.org/x/image and encoded as JPEG at quality 75, at the sizes their
// names advertise.
//
// # Security
//
// Sample names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within its base
// directory.
package assets
