package format

import (
	"math"
	"strconv"
)

// Number abbreviates large counts: 1234 -> "1.2K", 2500000 -> "2.5M".
// Values below 1000 are printed as is.
func Number(n int64) string {
	switch {
	case n >= 1_000_000:
		return fixed1(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return fixed1(float64(n)/1_000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// fixed1 rounds half away from zero to one decimal.
func fixed1(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count with binary units and up to two decimals:
// 0 -> "0 Bytes", 1536 -> "1.5 KB".
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i, v := 0, float64(bytes)
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
