package seedfile

// SeedEntry is a single bookmark in the seed file.
type SeedEntry struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// OwnerSeed groups seed bookmarks under the user that should own them.
// Owner is the provider user id (the same value sessions carry).
type OwnerSeed struct {
	Owner     string      `yaml:"owner"`
	Bookmarks []SeedEntry `yaml:"bookmarks"`
}

// SeedConfig is the root structure of the seed YAML file.
//
//	- owner: "google-user-42"
//	  bookmarks:
//	    - title: "Go Documentation"
//	      url: "https://go.dev/doc"
type SeedConfig []OwnerSeed
