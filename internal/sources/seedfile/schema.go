package seedfile

// SeedEntry is one bookmark in the seed YAML.
type SeedEntry struct {
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Pinned      bool     `yaml:"pinned"`
	Private     bool     `yaml:"private"`
}

// SeedCategory groups entries under one category name.
type SeedCategory struct {
	Category  string      `yaml:"category"`
	Bookmarks []SeedEntry `yaml:"bookmarks"`
}

// SeedConfig is the root structure of the seed file: a list of
// categories, each with its bookmarks.
type SeedConfig []SeedCategory
