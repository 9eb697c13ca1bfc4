package extract

import (
	"reflect"
	"testing"

	"github.com/flispi/landbank/internal/models"
)

const testSite = "https://www.thelandbank.org"

func TestDetail_OfferPriceOverridesListing(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h2>Starting Offer: $12,000</h2>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X", Price: intPtr(85000)}
	if err := Detail(doc, ov, testSite); err != nil {
		t.Fatalf("Detail() returned error: %v", err)
	}

	if ov.Price == nil || *ov.Price != 12000 {
		t.Errorf("expected offer price 12000 to override, got %v", ov.Price)
	}
	if ov.Featured == nil || !*ov.Featured {
		t.Error("detail page should mark the record featured")
	}
}

func TestDetail_NegotiableOfferKeepsListingPrice(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h2>Starting Offer: Negotiable</h2>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X", Price: intPtr(85000)}
	if err := Detail(doc, ov, testSite); err != nil {
		t.Fatalf("Detail() returned error: %v", err)
	}

	if ov.Price == nil || *ov.Price != 85000 {
		t.Errorf("expected listing price 85000 to survive, got %v", ov.Price)
	}
}

func TestDetail_NoOfferHeading(t *testing.T) {
	doc := mustDoc(t, `<html><body><h2>Property Details</h2></body></html>`)

	ov := &models.Overlay{ParcelID: "X"}
	if err := Detail(doc, ov, testSite); err != nil {
		t.Fatalf("Detail() returned error: %v", err)
	}
	if ov.Price != nil {
		t.Errorf("expected no price, got %d", *ov.Price)
	}
}

func TestDetail_ImagesFromBothSources(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a class="sslightbox" href="photos/front.jpg">front</a>
		<a class="sslightbox" href="https://cdn.example.com/side.jpg">side</a>
		<div class="bss-slides ccss1">
			<div><figure><img src="/photos/front.jpg"></figure></div>
			<div><figure><img src="photos/back.jpg"></figure></div>
		</div>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X"}
	if err := Detail(doc, ov, testSite); err != nil {
		t.Fatalf("Detail() returned error: %v", err)
	}

	// Lightbox images first, then carousel, relative URLs absolutized, and
	// no deduplication across the two sources.
	want := models.ImageList{
		"https://www.thelandbank.org/photos/front.jpg",
		"https://cdn.example.com/side.jpg",
		"https://www.thelandbank.org/photos/front.jpg",
		"https://www.thelandbank.org/photos/back.jpg",
	}
	if !reflect.DeepEqual(ov.Images, want) {
		t.Errorf("images = %v, want %v", ov.Images, want)
	}
}

func TestDetail_LineClassification(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="2u 12u"><ul>
			<li>Square feet: 1204</li>
			<li>3 Bedrooms</li>
			<li>2 Bathrooms</li>
			<li>Year built: circa 1925</li>
			<li>0.25 Acres</li>
			<li>2 Stories: yes</li>
			<li>Detached Garage</li>
			<li>New roof 2019</li>
			<li>Fenced yard</li>
		</ul></div>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X"}
	if err := Detail(doc, ov, testSite); err != nil {
		t.Fatalf("Detail() returned error: %v", err)
	}

	if ov.SquareFeet == nil || *ov.SquareFeet != 1204 {
		t.Errorf("square_feet = %v, want 1204", ov.SquareFeet)
	}
	if ov.Bedrooms == nil || *ov.Bedrooms != 3 {
		t.Errorf("bedrooms = %v, want 3", ov.Bedrooms)
	}
	if ov.Bathrooms == nil || *ov.Bathrooms != 2 {
		t.Errorf("bathrooms = %v, want 2", ov.Bathrooms)
	}
	if ov.YearBuilt == nil || *ov.YearBuilt != "circa 1925" {
		t.Errorf("year_built = %v, want %q", ov.YearBuilt, "circa 1925")
	}
	if ov.LotSize == nil || *ov.LotSize != 0.25 {
		t.Errorf("lot_size = %v, want 0.25", ov.LotSize)
	}
	if ov.Stories == nil || *ov.Stories != 2 {
		t.Errorf("stories = %v, want 2", ov.Stories)
	}
	if ov.Garage == nil || *ov.Garage != "Detached" {
		t.Errorf("garage = %v, want %q", ov.Garage, "Detached")
	}

	wantFeatures := models.FeatureSet{"New roof 2019": true, "Fenced yard": true}
	if !reflect.DeepEqual(ov.Features, wantFeatures) {
		t.Errorf("features = %v, want %v", ov.Features, wantFeatures)
	}
}

func TestDetail_MatchedLinesDoNotBecomeFeatures(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="2u 12u"><ul>
			<li>3 Bedrooms</li>
		</ul></div>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X"}
	if err := Detail(doc, ov, testSite); err != nil {
		t.Fatalf("Detail() returned error: %v", err)
	}
	if len(ov.Features) != 0 {
		t.Errorf("matched line should not appear in features, got %v", ov.Features)
	}
}

func TestDetail_NumericParseFailureIsFatal(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="2u 12u"><ul>
			<li>Square feet: 900</li>
			<li>TBD Bedrooms</li>
		</ul></div>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X"}
	if err := Detail(doc, ov, testSite); err == nil {
		t.Error("Detail() should return an error for a non-numeric bedroom count")
	}
}

func TestDetail_MalformedOfferAmountIsFatal(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h2>Starting Offer: $contact us</h2>
	</body></html>`)

	ov := &models.Overlay{ParcelID: "X"}
	if err := Detail(doc, ov, testSite); err == nil {
		t.Error("Detail() should return an error for an unparseable offer amount")
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photos/a.jpg", "https://www.thelandbank.org/photos/a.jpg"},
		{"/photos/a.jpg", "https://www.thelandbank.org/photos/a.jpg"},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
	}
	for _, tt := range tests {
		if got := absoluteURL(testSite, tt.in); got != tt.want {
			t.Errorf("absoluteURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
