// Package theme maps current weather conditions to the decorative palette
// and animation parameters used by the dashboard background.
//
// Derivation is a pure function of (weather code, day flag, wind speed):
// the code is classified first-match-wins against an ordered rule table,
// the classification picks a palette variant, and wind then caps the
// animation duration and escalates opacity.
package theme

import "fmt"

// Opacity is one step of the background orb opacity ladder.
type Opacity int

const (
	Opacity20 Opacity = 20
	Opacity30 Opacity = 30
	Opacity40 Opacity = 40
	Opacity50 Opacity = 50
	Opacity60 Opacity = 60
	Opacity70 Opacity = 70
)

// Escalate moves a low opacity one rung up the strong-wind ladder.
// Levels at or above 50 are returned unchanged.
func (o Opacity) Escalate() Opacity {
	switch o {
	case Opacity20:
		return Opacity40
	case Opacity30:
		return Opacity50
	case Opacity40:
		return Opacity60
	}
	return o
}

func (o Opacity) String() string { return fmt.Sprintf("opacity-%d", int(o)) }

// Descriptor is the derived visual theme.
type Descriptor struct {
	Gradient string  `json:"gradient"`
	AccentA  string  `json:"accentA"`
	AccentB  string  `json:"accentB"`
	Duration int     `json:"durationSeconds"`
	Opacity  Opacity `json:"opacity"`
}

// Variant keys the palette table.
type Variant string

const (
	VariantBase         Variant = "base"
	VariantClearDay     Variant = "clear-day"
	VariantClearNight   Variant = "clear-night"
	VariantCloudyDay    Variant = "cloudy-day"
	VariantCloudyNight  Variant = "cloudy-night"
	VariantFogDay       Variant = "fog-day"
	VariantFogNight     Variant = "fog-night"
	VariantRain         Variant = "rain"
	VariantRainHeavy    Variant = "rain-heavy"
	VariantSnow         Variant = "snow"
	VariantThunderstorm Variant = "thunderstorm"
)

var palette = map[Variant]Descriptor{
	VariantBase: {
		Gradient: "from-slate-900 via-[#0f172a] to-black",
		AccentA:  "bg-blue-600/20",
		AccentB:  "bg-purple-600/10",
		Duration: 8,
		Opacity:  Opacity40,
	},
	VariantClearDay: {
		Gradient: "from-sky-400 via-blue-600 to-indigo-900",
		AccentA:  "bg-yellow-400/30",
		AccentB:  "bg-orange-300/20",
		Duration: 10,
		Opacity:  Opacity60,
	},
	VariantClearNight: {
		Gradient: "from-slate-950 via-indigo-950 to-black",
		AccentA:  "bg-indigo-500/20",
		AccentB:  "bg-purple-900/20",
		Duration: 8,
		Opacity:  Opacity40,
	},
	VariantCloudyDay: {
		Gradient: "from-slate-300 via-slate-500 to-slate-700",
		AccentA:  "bg-white/20",
		AccentB:  "bg-blue-200/10",
		Duration: 15,
		Opacity:  Opacity30,
	},
	VariantCloudyNight: {
		Gradient: "from-slate-800 via-gray-900 to-black",
		AccentA:  "bg-slate-600/10",
		AccentB:  "bg-gray-700/10",
		Duration: 12,
		Opacity:  Opacity20,
	},
	VariantFogDay: {
		Gradient: "from-gray-300 via-slate-400 to-slate-600",
		AccentA:  "bg-gray-400/20",
		AccentB:  "bg-slate-300/10",
		Duration: 20,
		Opacity:  Opacity50,
	},
	VariantFogNight: {
		Gradient: "from-gray-900 via-slate-900 to-black",
		AccentA:  "bg-gray-400/20",
		AccentB:  "bg-slate-300/10",
		Duration: 20,
		Opacity:  Opacity50,
	},
	VariantRain: {
		Gradient: "from-blue-900 via-slate-900 to-black",
		AccentA:  "bg-blue-500/30",
		AccentB:  "bg-cyan-600/20",
		Duration: 5,
		Opacity:  Opacity40,
	},
	VariantRainHeavy: {
		Gradient: "from-blue-900 via-slate-900 to-black",
		AccentA:  "bg-blue-600/40",
		AccentB:  "bg-cyan-600/30",
		Duration: 3,
		Opacity:  Opacity60,
	},
	VariantSnow: {
		Gradient: "from-slate-800 via-blue-950 to-slate-950",
		AccentA:  "bg-white/10",
		AccentB:  "bg-cyan-300/20",
		Duration: 10,
		Opacity:  Opacity50,
	},
	VariantThunderstorm: {
		Gradient: "from-indigo-950 via-slate-950 to-black",
		AccentA:  "bg-purple-600/30",
		AccentB:  "bg-fuchsia-600/20",
		Duration: 2,
		Opacity:  Opacity70,
	},
}

// Default is the theme shown before any forecast has loaded.
func Default() Descriptor {
	return palette[VariantBase]
}

// Palette returns the unadjusted descriptor for a variant.
func Palette(v Variant) (Descriptor, bool) {
	d, ok := palette[v]
	return d, ok
}

// VariantOf picks the palette variant for a code. Codes outside every bucket
// fall back to the base variant.
func VariantOf(code int, isDay bool) Variant {
	switch Classify(code) {
	case Clear:
		if isDay {
			return VariantClearDay
		}
		return VariantClearNight
	case Cloudy:
		if isDay {
			return VariantCloudyDay
		}
		return VariantCloudyNight
	case Fog:
		if isDay {
			return VariantFogDay
		}
		return VariantFogNight
	case Rain:
		if IsHeavy(code) {
			return VariantRainHeavy
		}
		return VariantRain
	case Snow:
		return VariantSnow
	case Thunderstorm:
		return VariantThunderstorm
	}
	return VariantBase
}

// Derive computes the theme for the given current conditions.
func Derive(code int, isDay bool, windKmh float64) Descriptor {
	return AdjustForWind(palette[VariantOf(code, isDay)], windKmh)
}

// AdjustForWind caps the animation duration by wind band and, above 35 km/h,
// escalates opacity one rung. Wind never raises a duration.
func AdjustForWind(d Descriptor, windKmh float64) Descriptor {
	switch {
	case windKmh > 35:
		d.Duration = min(d.Duration, 3)
		d.Opacity = d.Opacity.Escalate()
	case windKmh > 20:
		d.Duration = min(d.Duration, 6)
	case windKmh > 10:
		d.Duration = min(d.Duration, 10)
	}
	return d
}
