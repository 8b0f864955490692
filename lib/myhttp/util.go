package myhttp

import (
	"fmt"
	"net/http"
	"os"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GuessHostnameWithScheme is used when there is no http-request to derive the hostname from,
// such as when registering a pubsub push-subscription at startup.
func GuessHostnameWithScheme() string {
	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if project != "" {
		return fmt.Sprintf("https://%s.appspot.com", project)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return fmt.Sprintf("http://localhost:%s", port)
}

// ShopperUID identifies the requesting shopper. Authentication is owned by an
// upstream gateway: it terminates the session and passes the identity on in a header.
func ShopperUID(r *http.Request) string {
	uid := r.Header.Get("X-Shopper-Uid")
	if uid == "" {
		uid = "shopper_anonymous"
	}

	return uid
}
