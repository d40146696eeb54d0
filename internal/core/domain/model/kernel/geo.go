package kernel

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created using NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address. Addresses must be created using NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// GeoPoint represents a geographic coordinate with validated latitude and
// longitude. GeoPoint is an immutable value object; the zero value is invalid
// and will fail validation.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
type GeoPoint struct {
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the specified coordinates.
// Latitude must be within [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	return GeoPoint{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// IsEqual compares two geo points by coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.latitude, p.longitude)
}

// Validate checks that the GeoPoint was properly constructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Address represents a delivery destination: the human-readable address text
// and its geographic coordinate. Address is an immutable value object; the
// zero value is invalid and will fail validation.
type Address struct {
	text     string
	location GeoPoint
	guard    guard.ConstructorGuard
}

// NewAddress creates an Address from the given text and coordinate.
// The text must be non-empty and the location must be a constructed GeoPoint.
func NewAddress(text string, location GeoPoint) (Address, error) {
	if text == "" {
		return Address{}, errs.NewValueIsRequiredError("address text")
	}
	if err := location.Validate(); err != nil {
		return Address{}, err
	}

	return Address{
		text:     text,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Text returns the human-readable address.
func (a Address) Text() string {
	return a.text
}

// Location returns the address coordinate.
func (a Address) Location() GeoPoint {
	return a.location
}

// Validate checks that the Address was properly constructed.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}
