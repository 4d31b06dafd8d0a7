package services

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	apiError "github.com/techagentng/citypulse/errors"
)

var ErrLocationUnavailable = apiError.New("could not detect your location, please enter it manually", http.StatusBadRequest)

// FormatCoordinates renders a position as "lat, lon" to four decimal places
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// ParseCoordinates reads a latitude and longitude pair, rejecting values
// outside the valid ranges.
func ParseCoordinates(latRaw, lonRaw string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, 0, ErrLocationUnavailable
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, 0, ErrLocationUnavailable
	}
	return lat, lon, nil
}
