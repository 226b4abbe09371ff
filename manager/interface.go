package manager

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrTransport marks a remote call that failed, returned a non-success
	// status, or produced a body that could not be parsed.
	ErrTransport = errors.New("transport error")
	// ErrGeolocationDenied is returned when the device position is unavailable.
	ErrGeolocationDenied = errors.New("could not retrieve location, please check permissions")
	// ErrSuperseded is returned for a forecast response that arrived after a newer
	// request was issued; its data is discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
	ErrNotFound   = errors.New("not found")
)

// Geocoding resolves free text into candidate places.
type Geocoding interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

// Forecast retrieves a full forecast for one coordinate pair.
type Forecast interface {
	Get(ctx context.Context, location Location) (ForecastRecord, error)
}

// Generator is a prompt-completion service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Locator resolves the device's current position.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// Narrator produces the short weather summary. It never fails.
type Narrator interface {
	Summarize(ctx context.Context, record ForecastRecord) string
}

// MinQueryLength is the shortest query that reaches the geocoding service.
const MinQueryLength = 2

// CurrentLocationName names a position obtained from the Locator.
const CurrentLocationName = "Current Location"

func QueryTooShort(query string) bool {
	return len([]rune(strings.TrimSpace(query))) < MinQueryLength
}

type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// Subtitle joins region and country, skipping empty parts.
func (l Location) Subtitle() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Current struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
	WeatherCode   int     `json:"weatherCode"`
	IsDay         bool    `json:"isDay"`
	Time          string  `json:"time"`
	Humidity      int     `json:"humidity"`
}

// Hourly holds parallel arrays; index i across all of them is one hour.
type Hourly struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature"`
	PrecipitationProbability []int     `json:"precipitationProbability"`
	WeatherCode              []int     `json:"weatherCode"`
}

func (h Hourly) Len() int { return len(h.Time) }

func (h Hourly) Valid() bool {
	n := len(h.Time)
	return len(h.Temperature) == n && len(h.PrecipitationProbability) == n && len(h.WeatherCode) == n
}

// Daily holds parallel arrays; index 0 is today.
type Daily struct {
	Time           []string  `json:"time"`
	WeatherCode    []int     `json:"weatherCode"`
	TemperatureMax []float64 `json:"temperatureMax"`
	TemperatureMin []float64 `json:"temperatureMin"`
	Sunrise        []string  `json:"sunrise"`
	Sunset         []string  `json:"sunset"`
}

func (d Daily) Len() int { return len(d.Time) }

func (d Daily) Valid() bool {
	n := len(d.Time)
	return len(d.WeatherCode) == n && len(d.TemperatureMax) == n && len(d.TemperatureMin) == n &&
		len(d.Sunrise) == n && len(d.Sunset) == n
}

type ForecastRecord struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
	Hourly   Hourly   `json:"hourly"`
	Daily    Daily    `json:"daily"`
}

// Hour is one sample of the hourly series.
type Hour struct {
	Time                     time.Time
	Temperature              float64
	PrecipitationProbability int
	WeatherCode              int
}

// Day is one entry of the daily series.
type Day struct {
	Date           time.Time
	WeatherCode    int
	TemperatureMax float64
	TemperatureMin float64
	Sunrise        time.Time
	Sunset         time.Time
}

// LocalTimeLayout is the timestamp format the forecast provider returns when
// asked for local time.
const (
	LocalTimeLayout = "2006-01-02T15:04"
	LocalDateLayout = "2006-01-02"
)

// NextHours returns up to n hourly samples starting at the hour of the current
// observation. When that hour is not in the series it starts at index 0.
func (r ForecastRecord) NextHours(n int) []Hour {
	start := 0
	if len(r.Current.Time) >= len("2006-01-02T15") {
		prefix := r.Current.Time[:len("2006-01-02T15")]
		for i, ts := range r.Hourly.Time {
			if strings.HasPrefix(ts, prefix) {
				start = i
				break
			}
		}
	}

	end := min(start+n, r.Hourly.Len())
	hours := make([]Hour, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		t, _ := time.Parse(LocalTimeLayout, r.Hourly.Time[i])
		hours = append(hours, Hour{
			Time:                     t,
			Temperature:              r.Hourly.Temperature[i],
			PrecipitationProbability: r.Hourly.PrecipitationProbability[i],
			WeatherCode:              r.Hourly.WeatherCode[i],
		})
	}
	return hours
}

// Day returns the daily entry at index i.
func (r ForecastRecord) Day(i int) (Day, bool) {
	if i < 0 || i >= r.Daily.Len() {
		return Day{}, false
	}
	date, _ := time.Parse(LocalDateLayout, r.Daily.Time[i])
	sunrise, _ := time.Parse(LocalTimeLayout, r.Daily.Sunrise[i])
	sunset, _ := time.Parse(LocalTimeLayout, r.Daily.Sunset[i])
	return Day{
		Date:           date,
		WeatherCode:    r.Daily.WeatherCode[i],
		TemperatureMax: r.Daily.TemperatureMax[i],
		TemperatureMin: r.Daily.TemperatureMin[i],
		Sunrise:        sunrise,
		Sunset:         sunset,
	}, true
}

// Week returns days 1..7, the week following today.
func (r ForecastRecord) Week() []Day {
	days := make([]Day, 0, 7)
	for i := 1; i <= 7; i++ {
		d, ok := r.Day(i)
		if !ok {
			break
		}
		days = append(days, d)
	}
	return days
}
