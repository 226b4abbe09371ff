package theme

var labels = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Heavy thunderstorm",
}

// Label is the display text for a code. Codes without an entry are "Unknown",
// even when they fall inside a bucket.
func Label(code int) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return Unknown.String()
}

// Icon names follow the lucide icon set used by the web front end.
const (
	IconSun            = "sun"
	IconMoon           = "moon"
	IconCloudSun       = "cloud-sun"
	IconCloudMoon      = "cloud-moon"
	IconCloud          = "cloud"
	IconCloudFog       = "cloud-fog"
	IconCloudDrizzle   = "cloud-drizzle"
	IconCloudRain      = "cloud-rain"
	IconSnowflake      = "snowflake"
	IconCloudLightning = "cloud-lightning"
)

// Icon picks the condition icon. Unknown codes get the clear-day icon.
func Icon(code int, isDay bool) string {
	switch Classify(code) {
	case Clear:
		if isDay {
			return IconSun
		}
		return IconMoon
	case Cloudy:
		if code == 3 {
			return IconCloud
		}
		if isDay {
			return IconCloudSun
		}
		return IconCloudMoon
	case Fog:
		return IconCloudFog
	case Rain:
		if code <= 57 {
			return IconCloudDrizzle
		}
		return IconCloudRain
	case Snow:
		return IconSnowflake
	case Thunderstorm:
		return IconCloudLightning
	}
	return IconSun
}
