package utils

// ValidateCoordinates checks a lat/long pair against WGS84 ranges.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateMapRadius checks a geographic radius in km. The upper bound is
// roughly half the Earth's circumference.
func ValidateMapRadius(radiusKm float64) bool {
	return radiusKm > 0 && radiusKm < 20038
}

// ValidatePixelRadius checks a radius in image space, which has no upper
// bound.
func ValidatePixelRadius(radius float64) bool {
	return radius > 0
}
