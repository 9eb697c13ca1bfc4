package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/flispi/landbank/internal/models"
)

// Detail overlays the featured detail page onto the partial record from the
// summary sheet. A numeric parse failure on any expected-numeric detail line
// returns an error and the overlay must be discarded: enrichment for that
// parcel is abandoned for the pass, nothing is committed.
func Detail(doc *goquery.Document, ov *models.Overlay, site string) error {
	ov.Featured = boolPtr(true)

	if err := detailPrice(doc, ov); err != nil {
		return err
	}
	detailImages(doc, ov, site)
	return detailLines(doc, ov)
}

// detailPrice reads the "Starting Offer" heading. A negotiable offer leaves
// whatever price the summary sheet produced; otherwise the amount after the
// first colon overrides it.
func detailPrice(doc *goquery.Document, ov *models.Overlay) error {
	var heading string
	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "Starting Offer") {
			heading = s.Text()
			return false
		}
		return true
	})
	if heading == "" || strings.Contains(strings.ToLower(heading), "negotiable") {
		return nil
	}

	_, amount, found := strings.Cut(heading, ":")
	if !found {
		return fmt.Errorf("malformed offer heading %q", heading)
	}
	price, err := parsePrice(amount)
	if err != nil {
		return fmt.Errorf("offer heading: %w", err)
	}
	ov.Price = intPtr(price)
	return nil
}

// detailImages collects image URLs from the lightbox anchors and then the
// slide carousel figures, in document order. Relative URLs are made absolute
// against the site origin. The two sources are not deduplicated against each
// other; the site occasionally lists the same image in both.
func detailImages(doc *goquery.Document, ov *models.Overlay, site string) {
	doc.Find("a.sslightbox").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			ov.Images = append(ov.Images, absoluteURL(site, href))
		}
	})
	doc.Find("div.bss-slides.ccss1 > div > figure > img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			ov.Images = append(ov.Images, absoluteURL(site, src))
		}
	})
}

// detailLines classifies the free-text lines of the property info list. Each
// line is matched against the known label patterns in order, first match
// wins; lines matching nothing are recorded as feature flags verbatim.
func detailLines(doc *goquery.Document, ov *models.Overlay) error {
	var firstErr error
	doc.Find("div[class='2u 12u'] ul li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalizeSpace(s.Text())
		if text == "" {
			return true
		}
		if err := classifyLine(text, ov); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	return firstErr
}

func classifyLine(text string, ov *models.Overlay) error {
	switch {
	case strings.Contains(text, "Square feet:"):
		n, err := intAfter(text, "Square feet:")
		if err != nil {
			return err
		}
		ov.SquareFeet = intPtr(n)
	case strings.Contains(text, "Bedrooms"):
		n, err := intBefore(text, "Bedrooms")
		if err != nil {
			return err
		}
		ov.Bedrooms = intPtr(n)
	case strings.Contains(text, "Bathrooms"):
		n, err := intBefore(text, "Bathrooms")
		if err != nil {
			return err
		}
		ov.Bathrooms = intPtr(n)
	case strings.Contains(text, "Year built:"):
		ov.YearBuilt = strPtr(strings.TrimSpace(after(text, "Year built:")))
	case strings.Contains(text, "Acres"):
		f, err := floatBefore(text, "Acres")
		if err != nil {
			return err
		}
		ov.LotSize = floatPtr(f)
	case strings.Contains(text, "Stories:"):
		n, err := intBefore(text, "Stories")
		if err != nil {
			return err
		}
		ov.Stories = intPtr(n)
	case strings.Contains(text, "Garage"):
		ov.Garage = strPtr(strings.TrimSpace(before(text, "Garage")))
	default:
		if ov.Features == nil {
			ov.Features = models.FeatureSet{}
		}
		ov.Features[text] = true
	}
	return nil
}

// absoluteURL prefixes the site origin when u carries no scheme already.
func absoluteURL(site, u string) string {
	if strings.Contains(u, "http") {
		return u
	}
	return strings.TrimSuffix(site, "/") + "/" + strings.TrimPrefix(u, "/")
}
