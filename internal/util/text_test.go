package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "go-1-24-release-notes", Slugify("Go 1.24 Release Notes"))
	assert.Equal(t, "trimmed", Slugify("  trimmed  "))
	assert.Equal(t, "no-doubles", Slugify("no --- doubles"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "go gin", NormalizeQuery("  go   gin  "))
	assert.Equal(t, "single", NormalizeQuery("single"))
	assert.Equal(t, "", NormalizeQuery("   "))
	assert.Equal(t, "tabs and newlines", NormalizeQuery("tabs\tand\nnewlines"))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("valid-slug-123"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("Has-Capitals"))
	assert.Error(t, ValidateSlug("spaces here"))
	assert.Error(t, ValidateSlug("-leading"))
	assert.Error(t, ValidateSlug("trailing-"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/repo"))
	assert.NoError(t, ValidateURL("http://localhost:8080"))
	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("not-a-url"))
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("https://"))
}
