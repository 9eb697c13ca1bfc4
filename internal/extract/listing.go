package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/flispi/landbank/internal/models"
)

// Listing extracts the partial record from a parcel's summary sheet. The
// starting-price cell only yields a price when it carries a currency marker;
// a blank or administrative cell leaves the price unknown rather than
// erroring. The returned detailHref is the target of the "featured" anchor
// when one exists, empty otherwise.
func Listing(doc *goquery.Document, parcelID string) (*models.Overlay, string) {
	ov := &models.Overlay{ParcelID: parcelID}

	priceCell := doc.Find("table.infotab tr").First().Find("td").Eq(1).Text()
	if strings.Contains(priceCell, "$") {
		// The summary sheet always renders a clean "$1,234" amount when it
		// renders one at all, so a marker with unparseable digits is treated
		// the same as no marker.
		if price, err := parsePrice(priceCell); err == nil {
			ov.Price = intPtr(price)
		}
	}

	detailHref := ""
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "featured") {
			return true
		}
		if href, ok := s.Attr("href"); ok && href != "" {
			detailHref = href
			return false
		}
		return true
	})

	return ov, detailHref
}
