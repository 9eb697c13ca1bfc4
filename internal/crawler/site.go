// Package crawler drives the two crawl phases against the landbank site:
// discovery (search results -> new records) and enrichment (per-parcel
// summary sheet -> optional featured detail page -> merged record).
package crawler

import (
	"fmt"
	"strings"
)

// DefaultSite is the origin of the landbank property site. The site schema
// (paths, table classes, link text) is fixed; only the origin is
// configurable so tests can point the crawler at a local server.
const DefaultSite = "https://www.thelandbank.org"

// summaryURL builds the property sheet URL for a parcel id. The loc/from
// query parameters mirror what the site's own search links carry.
func summaryURL(site, parcelID string) string {
	return fmt.Sprintf("%s/property_sheet.asp?pid=%s&loc=2&from=main", strings.TrimSuffix(site, "/"), parcelID)
}

// resolveHref makes a possibly-relative href absolute against the site
// origin. Hrefs that already carry a scheme pass through unchanged.
func resolveHref(site, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(site, "/") + "/" + strings.TrimPrefix(href, "/")
}
