package service

import "math"

const earthRadiusKm = 6371.0

// haversineKm расстояние по большой окружности между двумя точками в километрах.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// roundTo округляет value до digits знаков после запятой.
func roundTo(value float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(value*p) / p
}
