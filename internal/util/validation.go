package util

import (
	"errors"
	"net/url"
	"strings"
)

// ValidateSlug checks that a slug is non-empty, lowercase and URL-safe
func ValidateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug is required")
	}
	if len(slug) > 200 {
		return errors.New("slug too long (max 200 characters)")
	}
	for _, r := range slug {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		return errors.New("slug may only contain lowercase letters, digits and hyphens")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return errors.New("slug cannot start or end with a hyphen")
	}
	return nil
}

// ValidateURL checks that a string parses as an absolute http(s) URL
func ValidateURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if u.Host == "" {
		return errors.New("url must be absolute")
	}
	return nil
}
