package config

// DefaultPooledDomains is the built-in allowlist of the 50 most popular
// domains by global traffic. Their registration data is cached centrally so
// lookups are served instantly, and they are excluded from personal expiry
// notifications. Override with POOLED_DOMAINS.
var DefaultPooledDomains = []string{
	"google.com",
	"youtube.com",
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"linkedin.com",
	"reddit.com",
	"wikipedia.org",
	"amazon.com",
	"ebay.com",
	"netflix.com",
	"microsoft.com",
	"apple.com",
	"zoom.us",
	"tiktok.com",
	"whatsapp.com",
	"pinterest.com",
	"yahoo.com",
	"twitch.tv",
	"discord.com",
	"github.com",
	"stackoverflow.com",
	"wordpress.com",
	"tumblr.com",
	"shopify.com",
	"paypal.com",
	"adobe.com",
	"salesforce.com",
	"dropbox.com",
	"slack.com",
	"medium.com",
	"quora.com",
	"vimeo.com",
	"cloudflare.com",
	"nvidia.com",
	"spotify.com",
	"airbnb.com",
	"uber.com",
	"booking.com",
	"tripadvisor.com",
	"expedia.com",
	"yelp.com",
	"imdb.com",
	"cnn.com",
	"bbc.com",
	"nytimes.com",
	"espn.com",
	"walmart.com",
	"target.com",
	"bestbuy.com",
}
