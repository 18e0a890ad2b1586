package utm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// BandLetters lists the latitude bands from 80S northwards. I and O are
// skipped so they cannot be mistaken for 1 and 0.
const BandLetters = "CDEFGHJKLMNPQRSTUVWX"

// Projectable latitude limits
const (
	MinLatitude = -80.0
	MaxLatitude = 84.0
)

// ZoneNumber returns the zone number for a longitude in degrees. 180 closes
// zone 60 rather than opening zone 1.
func ZoneNumber(longitude float64) int {
	zone := int(math.Floor((longitude+180)/6)) + 1
	if zone < 1 {
		return 1
	}
	if zone > 60 {
		return 60
	}
	return zone
}

// ZoneLetter returns the latitude band for a latitude in degrees
func ZoneLetter(latitude float64) (byte, error) {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return 0, fmt.Errorf("%w: latitude %v has no UTM band (valid %v..%v)", ErrOutOfRange, latitude, MinLatitude, MaxLatitude)
	}
	idx := int(math.Floor((latitude - MinLatitude) / 8))
	// X spans 72..84
	if idx >= len(BandLetters) {
		idx = len(BandLetters) - 1
	}
	// latitudes that round onto the equator stay in the southern band M
	if latitude < 0 && Northern(BandLetters[idx]) {
		idx = strings.IndexByte(BandLetters, 'M')
	}
	return BandLetters[idx], nil
}

// CentralMeridian returns the central meridian of a zone in degrees
func CentralMeridian(zone int) float64 {
	return float64((zone-1)*6 - 180 + 3)
}

// Northern reports whether a band letter lies in the northern hemisphere
func Northern(letter byte) bool {
	return letter >= 'N'
}

// ValidZone checks a zone number and band letter
func ValidZone(number int, letter byte) error {
	if number < 1 || number > 60 {
		return fmt.Errorf("%w: zone number %d not in 1..60", ErrMalformedZone, number)
	}
	if letter == 0 || strings.IndexByte(BandLetters, letter) < 0 {
		return fmt.Errorf("%w: zone letter %q not one of %s", ErrMalformedZone, letter, BandLetters)
	}
	return nil
}

// ParseZone parses either a combined zone token such as "32U" or a zone
// number and letter given as two tokens. Letters are case-insensitive.
func ParseZone(tokens ...string) (int, byte, error) {
	var numStr, letterStr string
	switch len(tokens) {
	case 1:
		tok := strings.TrimSpace(tokens[0])
		split := strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) })
		if split < 0 {
			return 0, 0, fmt.Errorf("%w: %q has no zone letter", ErrMalformedZone, tok)
		}
		numStr, letterStr = tok[:split], tok[split:]
	case 2:
		numStr, letterStr = strings.TrimSpace(tokens[0]), strings.TrimSpace(tokens[1])
	default:
		return 0, 0, fmt.Errorf("%w: expected 1 or 2 tokens, got %d", ErrMalformedZone, len(tokens))
	}

	number, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: zone number %q is not an integer", ErrMalformedZone, numStr)
	}
	if len(letterStr) != 1 {
		return 0, 0, fmt.Errorf("%w: zone letter %q must be a single character", ErrMalformedZone, letterStr)
	}
	letter := byte(unicode.ToUpper(rune(letterStr[0])))
	if err := ValidZone(number, letter); err != nil {
		return 0, 0, err
	}
	return number, letter, nil
}
