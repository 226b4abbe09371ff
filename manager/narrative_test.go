package manager

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stratos/logging"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func sampleRecord() ForecastRecord {
	return ForecastRecord{
		Location: Location{Name: "Oslo", Latitude: 59.91, Longitude: 10.75},
		Current: Current{
			Temperature:   4.5,
			WindSpeed:     12.3,
			WindDirection: 200,
			WeatherCode:   61,
			IsDay:         true,
			Time:          "2025-03-01T14:15",
			Humidity:      81,
		},
		Hourly: Hourly{
			Time:                     []string{"2025-03-01T13:00", "2025-03-01T14:00", "2025-03-01T15:00"},
			Temperature:              []float64{4.1, 4.5, 4.2},
			PrecipitationProbability: []int{60, 70, 40},
			WeatherCode:              []int{61, 61, 3},
		},
		Daily: Daily{
			Time:           []string{"2025-03-01", "2025-03-02"},
			WeatherCode:    []int{61, 3},
			TemperatureMax: []float64{6.2, 7},
			TemperatureMin: []float64{1.4, 0.5},
			Sunrise:        []string{"2025-03-01T07:20", "2025-03-02T07:17"},
			Sunset:         []string{"2025-03-01T17:39", "2025-03-02T17:42"},
		},
	}
}

func TestWeatherContext(t *testing.T) {
	got := WeatherContext(sampleRecord())
	want := strings.Join([]string{
		"Location: Oslo",
		"Current Temp: 4.5°C",
		"Condition: Slight rain",
		"Humidity: 81%",
		"Wind: 12.3 km/h",
		"Today's High: 6.2°C",
		"Today's Low: 1.4°C",
		"Is Day: Yes",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected context:\n%s\nwant:\n%s", got, want)
	}
}

func TestWeatherContextUnknownCode(t *testing.T) {
	r := sampleRecord()
	r.Current.WeatherCode = 42
	r.Current.IsDay = false
	got := WeatherContext(r)
	if !strings.Contains(got, "Condition: Unknown") || !strings.Contains(got, "Is Day: No") {
		t.Fatalf("unexpected context %q", got)
	}
}

func TestSummarizePassesTextThrough(t *testing.T) {
	var prompt string
	n := NewNarrator(generatorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "  Grab an umbrella.  ", nil
	}), logging.Discard())

	got := n.Summarize(context.Background(), sampleRecord())
	if got != "  Grab an umbrella.  " {
		t.Fatalf("expected text unmodified, got %q", got)
	}
	if !strings.Contains(prompt, "Location: Oslo") || !strings.Contains(prompt, "No markdown formatting") {
		t.Fatalf("prompt missing context or instructions: %q", prompt)
	}
}

func TestSummarizeFallbacks(t *testing.T) {
	cases := []struct {
		name string
		text string
		err  error
		want string
	}{
		{"error", "", errors.New("quota exceeded"), FallbackOffline},
		{"empty", "", nil, FallbackEmpty},
		{"blank passes through", " \n ", nil, " \n "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := NewNarrator(generatorFunc(func(context.Context, string) (string, error) {
				return tc.text, tc.err
			}), logging.Discard())
			if got := n.Summarize(context.Background(), sampleRecord()); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
