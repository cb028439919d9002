package assets

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// Load reads a built-in sample by name.
// Returns ErrSampleNotFound if the sample does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func Load(name string) ([]byte, error) {
	return defaultLoader.Load(name)
}

// Names lists the built-in samples.
func Names() ([]string, error) {
	return defaultLoader.Names()
}
