package assets

// Loader defines the contract for loading sample files by name.
type Loader interface {
	// Load returns the content of the named sample, such as
	// "02_the_raven.txt".
	// Returns ErrSampleNotFound if the sample doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	Load(name string) ([]byte, error)

	// Names lists the available samples, sorted.
	Names() ([]string, error)
}

// Built-in sample names.
const (
	SampleRaven      = "02_the_raven.txt"
	SampleWifi       = "02_02_wifi_details.csv"
	SampleHeart      = "tell_tale_heart.txt"
	SampleStyleSheet = "styles.yaml"
	SampleStory      = "tour.story.yaml"
)
