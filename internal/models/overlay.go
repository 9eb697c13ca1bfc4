package models

// Overlay is the sparse set of fields one crawl pass learned about a parcel.
// Every optional field is a pointer (or nilable collection): nil means "not
// observed this pass" and leaves the stored value untouched, while a non-nil
// pointer to a zero value (e.g. stories=0) is still applied. ParcelID is
// always present.
type Overlay struct {
	ParcelID string

	Price      *int
	SquareFeet *int
	Bedrooms   *int
	Bathrooms  *int
	Stories    *int
	YearBuilt  *string
	LotSize    *float64
	Garage     *string

	Featured *bool
	Features FeatureSet
	Images   ImageList
}

// ApplyTo copies every present overlay field onto p. Absent fields never
// overwrite stored values, so applying the same overlay twice is a no-op
// after the first application.
func (o *Overlay) ApplyTo(p *Property) {
	if o.Price != nil {
		p.Price = o.Price
	}
	if o.SquareFeet != nil {
		p.SquareFeet = o.SquareFeet
	}
	if o.Bedrooms != nil {
		p.Bedrooms = o.Bedrooms
	}
	if o.Bathrooms != nil {
		p.Bathrooms = o.Bathrooms
	}
	if o.Stories != nil {
		p.Stories = o.Stories
	}
	if o.YearBuilt != nil {
		p.YearBuilt = o.YearBuilt
	}
	if o.LotSize != nil {
		p.LotSize = o.LotSize
	}
	if o.Garage != nil {
		p.Garage = o.Garage
	}
	if o.Featured != nil {
		p.Featured = *o.Featured
	}
	if o.Features != nil {
		p.Features = o.Features
	}
	if o.Images != nil {
		p.Images = o.Images
	}
}
