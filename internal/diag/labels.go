package diag

// labelDefaults maps coordinate names to human-readable axis labels.
// Coordinates without an entry fall back to their raw name.
var labelDefaults = map[string]string{
	"phi1":     "phi1 (deg)",
	"phi2":     "phi2 (deg)",
	"plx":      "parallax (mas)",
	"parallax": "parallax (mas)",
	"pmphi1":   "pm phi1 (mas/yr)",
	"pmphi2":   "pm phi2 (mas/yr)",
	"rv":       "radial velocity (km/s)",
	"distance": "distance (kpc)",
	"distmod":  "distance modulus (mag)",
}

// Label resolves the display label for a coordinate, falling back to the
// coordinate name itself.
func Label(coord string) string {
	if label, ok := labelDefaults[coord]; ok {
		return label
	}
	return coord
}
