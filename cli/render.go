package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"stratos/manager"
	"stratos/theme"
)

const (
	hourWindow = 24
	retryHint  = "run again or type :retry to retry"
)

// Render writes a text view of the dashboard snapshot.
func Render(w io.Writer, s manager.Snapshot) {
	if s.Alert != "" {
		fmt.Fprintf(w, "ALERT\t\t %s\n", s.Alert)
	}

	switch s.State {
	case manager.Idle:
		fmt.Fprintf(w, "STATE\t\t idle\n")
	case manager.Loading:
		name := ""
		if s.Requested != nil {
			name = s.Requested.Name
		}
		fmt.Fprintf(w, "STATE\t\t loading %s\n", name)
	case manager.Error:
		fmt.Fprintf(w, "ERROR\t\t %s (%s)\n", s.Error, retryHint)
	}

	if s.Forecast == nil {
		return
	}

	renderCurrent(w, s)
	renderHours(w, s.Forecast.NextHours(hourWindow))
	renderWeek(w, s.Forecast.Week())
	renderMap(w, s)

	narrative := s.Narrative
	if narrative == "" {
		narrative = manager.NarrativePlaceholder
	}
	fmt.Fprintf(w, "INSIGHT\t\t %s\n", narrative)
}

func renderCurrent(w io.Writer, s manager.Snapshot) {
	r := s.Forecast
	c := r.Current

	fmt.Fprintf(w, "LOCATION\t %s", r.Location.Name)
	if sub := r.Location.Subtitle(); sub != "" {
		fmt.Fprintf(w, " (%s)", sub)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "NOW\t\t %.0f°C %s [%s]\n", c.Temperature, s.Label, s.Icon)
	fmt.Fprintf(w, "HUMIDITY\t %d%%\n", c.Humidity)
	fmt.Fprintf(w, "WIND\t\t %.1f km/h %s\n", c.WindSpeed, compass(c.WindDirection))

	if today, ok := r.Day(0); ok {
		fmt.Fprintf(w, "TODAY\t\t H %.0f°C L %.0f°C sunrise %s sunset %s\n",
			today.TemperatureMax, today.TemperatureMin,
			today.Sunrise.Format("15:04"), today.Sunset.Format("15:04"))
	}

	fmt.Fprintf(w, "THEME\t\t %s | %s %s | pulse %ds %s\n",
		s.Theme.Gradient, s.Theme.AccentA, s.Theme.AccentB, s.Theme.Duration, s.Theme.Opacity)
}

func renderHours(w io.Writer, hours []manager.Hour) {
	if len(hours) == 0 {
		return
	}
	fmt.Fprintf(w, "TIME\t\t")
	for _, h := range hours {
		fmt.Fprintf(w, "%3s  ", h.Time.Format("15"))
	}
	fmt.Fprintf(w, "\nTEMP\t\t")
	for _, h := range hours {
		fmt.Fprintf(w, "%3.0f  ", h.Temperature)
	}
	fmt.Fprintf(w, "\nRAIN %%\t\t")
	for _, h := range hours {
		fmt.Fprintf(w, "%3d  ", h.PrecipitationProbability)
	}
	fmt.Fprintf(w, "\n")
}

func renderWeek(w io.Writer, days []manager.Day) {
	for _, d := range days {
		fmt.Fprintf(w, "%s\t %-22s %3.0f° / %3.0f°\n",
			d.Date.Format("Mon 02 Jan"), theme.Label(d.WeatherCode), d.TemperatureMax, d.TemperatureMin)
	}
}

func renderMap(w io.Writer, s manager.Snapshot) {
	loc := s.Forecast.Location
	fmt.Fprintf(w, "MAP\t\t %.4f, %.4f %.0f°C %s %s\n",
		loc.Latitude, loc.Longitude, s.Forecast.Current.Temperature, s.Label, MapURL(loc))
}

// MapURL links to an OpenStreetMap view centred on the location.
func MapURL(loc manager.Location) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.4f&mlon=%.4f#map=10/%.4f/%.4f",
		loc.Latitude, loc.Longitude, loc.Latitude, loc.Longitude)
}

// RenderCandidates lists search results numbered from 1.
func RenderCandidates(w io.Writer, locations []manager.Location) {
	if len(locations) == 0 {
		fmt.Fprintf(w, "no places found\n")
		return
	}
	for i, loc := range locations {
		fmt.Fprintf(w, "%d. %s", i+1, loc.Name)
		if sub := loc.Subtitle(); sub != "" {
			fmt.Fprintf(w, ", %s", sub)
		}
		fmt.Fprintf(w, "\t(%.2f, %.2f)\n", loc.Latitude, loc.Longitude)
	}
}

// RenderTheme prints a derived theme and the condition it was derived for.
func RenderTheme(w io.Writer, code int, isDay bool, d theme.Descriptor) {
	fmt.Fprintf(w, "CONDITION\t %s [%s]\n", theme.Label(code), theme.Icon(code, isDay))
	fmt.Fprintf(w, "VARIANT\t\t %s\n", theme.VariantOf(code, isDay))
	fmt.Fprintf(w, "GRADIENT\t %s\n", d.Gradient)
	fmt.Fprintf(w, "ACCENTS\t\t %s %s\n", d.AccentA, d.AccentB)
	fmt.Fprintf(w, "PULSE\t\t %ds %s\n", d.Duration, d.Opacity)
}

var compassPoints = strings.Fields("N NE E SE S SW W NW")

func compass(degrees float64) string {
	i := int(math.Round(math.Mod(degrees, 360)/45)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}
