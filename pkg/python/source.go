package python

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// PackageTuple identifies a package at a specific version from a specific index.
// Equality is structural, so tuples can be used directly as map keys.
type PackageTuple struct {
	Name      string // Package name as declared
	Version   string // Locked version without the "==" operator (e.g., "1.0.0")
	SourceURL string // URL of the package index
}

// String renders the tuple as name==version@url.
func (t PackageTuple) String() string {
	if t.SourceURL == "" {
		return fmt.Sprintf("%s==%s", t.Name, t.Version)
	}
	return fmt.Sprintf("%s==%s@%s", t.Name, t.Version, t.SourceURL)
}

// Source is a package index keyed by its URL.
type Source struct {
	Name      string `toml:"name" json:"name"`
	URL       string `toml:"url" json:"url"`
	VerifySSL bool   `toml:"verify_ssl" json:"verify_ssl"`
}

// NewSource creates a Source for url with SSL verification enabled.
// The name is derived from the URL host (e.g., "pypi-org" for https://pypi.org/simple).
func NewSource(rawURL string) *Source {
	return &Source{
		Name:      sourceName(rawURL),
		URL:       rawURL,
		VerifySSL: true,
	}
}

func sourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.ReplaceAll(u.Hostname(), ".", "-")
}

var nameSeparatorRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName returns the PEP 503 normalized form of a package name.
func NormalizeName(name string) string {
	return nameSeparatorRE.ReplaceAllString(strings.ToLower(name), "-")
}
