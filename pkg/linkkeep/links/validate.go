package links

import "net/url"

// validateOriginalURL checks that the destination is an absolute HTTP or
// HTTPS URL. The binding tag already rejects malformed URLs; this guards
// against schemes a browser should not be redirected to.
func validateOriginalURL(raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return &ValidationError{"Please enter a valid URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{"Only HTTP and HTTPS URLs are supported"}
	}
	if parsed.Host == "" {
		return &ValidationError{"Please enter a valid URL"}
	}
	return nil
}
