package unsplash

const (
	// UnsplashAPIURL is the base URL of the Unsplash API.
	UnsplashAPIURL = "https://api.unsplash.com"

	// UnsplashRandomPath is the endpoint returning random photos.
	UnsplashRandomPath = "/photos/random"

	// UnsplashAPIVersion pins the API version we decode.
	UnsplashAPIVersion = "v1"

	// UnsplashOrientation restricts random photos to the TV's orientation.
	UnsplashOrientation = "landscape"
)

// Collections are the Unsplash collections random photos are drawn from
// (curated by https://unsplash.com/@susan_wilkinson).
var Collections = []string{
	"8262542",
	"879220",
	"1976117",
	"2027881",
	"4494328",
	"1887125",
	"32519533",
}
