package entity

// Built-in category tables for well-known providers.
var (
	BBCNewsCategories = MustCategorySet(
		Category{Name: "TOP_STORIES", Path: "/rss.xml"},
		Category{Name: "UK", Path: "/uk/rss.xml"},
		Category{Name: "WORLD", Path: "/world/rss.xml"},
		Category{Name: "US", Path: "/us.xml"},
		Category{Name: "BUSINESS", Path: "/business/rss.xml"},
		Category{Name: "POLITICS", Path: "/politics/rss.xml"},
		Category{Name: "TECHNOLOGY", Path: "/technology/rss.xml"},
		Category{Name: "ENTERTAINMENT", Path: "/entertainment_and_arts/rss.xml"},
	)

	SkyNewsCategories = MustCategorySet(
		Category{Name: "HOME", Path: "/home.xml"},
		Category{Name: "UK", Path: "/uk.xml"},
		Category{Name: "WORLD", Path: "/world.xml"},
		Category{Name: "US", Path: "/us.xml"},
		Category{Name: "BUSINESS", Path: "/business.xml"},
		Category{Name: "POLITICS", Path: "/politics.xml"},
		Category{Name: "TECHNOLOGY", Path: "/technology.xml"},
		Category{Name: "ENTERTAINMENT", Path: "/entertainment.xml"},
		Category{Name: "STRANGE", Path: "/strange.xml"},
	)
)

// Default base URLs of the built-in providers.
const (
	BBCNewsBaseURL = "https://feeds.bbci.co.uk/news"
	SkyNewsBaseURL = "https://feeds.skynews.com/feeds/rss"
)

// Preset returns a built-in category table by name ("bbc" or "sky").
func Preset(name string) (CategorySet, bool) {
	switch name {
	case "bbc":
		return BBCNewsCategories, true
	case "sky":
		return SkyNewsCategories, true
	default:
		return CategorySet{}, false
	}
}
