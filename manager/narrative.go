package manager

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stratos/theme"
)

const (
	// FallbackEmpty is returned when the generator answers with no text.
	FallbackEmpty = "I'm having trouble reading the clouds right now, but stay safe!"
	// FallbackOffline is returned when the generator call fails.
	FallbackOffline = "Gemini is currently offline. Enjoy the weather!"
	// NarrativePlaceholder is shown while no narrative is available.
	NarrativePlaceholder = "Analyzing atmospheric conditions..."
)

const promptTemplate = `You are a witty, friendly, and helpful weather AI assistant.
Based on the following weather data, provide a short paragraph (max 2-3 sentences).

Data:
%s

Include:
1. A quick relatable comment about the weather.
2. A practical outfit recommendation or activity suggestion.

Tone: Fun but useful. No markdown formatting, just plain text.`

// NewNarrator wraps a Generator with the prompt contract and fallbacks.
func NewNarrator(generator Generator, logger *slog.Logger) *narrator {
	return &narrator{generator: generator, logger: logger}
}

type narrator struct {
	generator Generator
	logger    *slog.Logger
}

func (n *narrator) Summarize(ctx context.Context, record ForecastRecord) string {
	text, err := n.generator.Generate(ctx, Prompt(record))
	if err != nil {
		n.logger.Warn("narrative_fallback", "reason", "generator_error", "error", err.Error())
		return FallbackOffline
	}
	if text == "" {
		n.logger.Warn("narrative_fallback", "reason", "empty_text")
		return FallbackEmpty
	}
	return text
}

// Prompt embeds the compact weather context into the instruction template.
func Prompt(record ForecastRecord) string {
	return fmt.Sprintf(promptTemplate, WeatherContext(record))
}

// WeatherContext reduces a record to the fixed fields the generator sees.
func WeatherContext(record ForecastRecord) string {
	isDay := "No"
	if record.Current.IsDay {
		isDay = "Yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s\n", record.Location.Name)
	fmt.Fprintf(&b, "Current Temp: %s°C\n", formatNumber(record.Current.Temperature))
	fmt.Fprintf(&b, "Condition: %s\n", theme.Label(record.Current.WeatherCode))
	fmt.Fprintf(&b, "Humidity: %d%%\n", record.Current.Humidity)
	fmt.Fprintf(&b, "Wind: %s km/h\n", formatNumber(record.Current.WindSpeed))
	fmt.Fprintf(&b, "Today's High: %s°C\n", dailyValue(record.Daily.TemperatureMax))
	fmt.Fprintf(&b, "Today's Low: %s°C\n", dailyValue(record.Daily.TemperatureMin))
	fmt.Fprintf(&b, "Is Day: %s", isDay)
	return b.String()
}

func dailyValue(values []float64) string {
	if len(values) == 0 {
		return "n/a"
	}
	return formatNumber(values[0])
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
