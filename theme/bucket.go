package theme

// Bucket groups weather codes that share one theme family.
type Bucket int

const (
	Unknown Bucket = iota
	Clear
	Cloudy
	Fog
	Rain
	Snow
	Thunderstorm
)

var bucketNames = map[Bucket]string{
	Unknown:      "Unknown",
	Clear:        "Clear",
	Cloudy:       "Cloudy",
	Fog:          "Fog",
	Rain:         "Rain",
	Snow:         "Snow",
	Thunderstorm: "Thunderstorm",
}

func (b Bucket) String() string { return bucketNames[b] }

type rule struct {
	bucket Bucket
	match  func(code int) bool
}

func within(lo, hi int) func(int) bool {
	return func(code int) bool { return code >= lo && code <= hi }
}

func oneOf(codes ...int) func(int) bool {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(code int) bool {
		_, ok := set[code]
		return ok
	}
}

// rules is evaluated in order; the first match wins.
var rules = []rule{
	{Clear, within(0, 1)},
	{Cloudy, within(2, 3)},
	{Fog, oneOf(45, 48)},
	{Rain, oneOf(51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82)},
	{Snow, oneOf(71, 73, 75, 77, 85, 86)},
	{Thunderstorm, func(code int) bool { return code >= 95 }},
}

var heavyRain = oneOf(55, 65, 67, 82)

// Classify returns the bucket for a WMO code, or Unknown.
func Classify(code int) Bucket {
	for _, r := range rules {
		if r.match(code) {
			return r.bucket
		}
	}
	return Unknown
}

// IsHeavy reports the heavy sub-flag of the rain bucket.
func IsHeavy(code int) bool {
	return Classify(code) == Rain && heavyRain(code)
}
