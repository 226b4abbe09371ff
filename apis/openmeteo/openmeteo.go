package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/go-resty/resty/v2"

	"stratos/apis"
	"stratos/config"
	"stratos/manager"
)

const (
	currentFields = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m,wind_direction_10m,is_day"
	hourlyFields  = "temperature_2m,precipitation_probability,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset"
)

var errParallelArrays = errors.New("parallel arrays differ in length")

func New(cfg config.Forecast) *forecast {
	return &forecast{
		client: apis.NewClient(cfg.Timeout),
		url:    cfg.URL,
		days:   cfg.Days,
	}
}

type forecast struct {
	client *resty.Client
	url    string
	days   int
}

// Get fetches current, hourly and daily data for the location. Timestamps come
// back in the location's local time; array order is kept as returned.
func (f forecast) Get(ctx context.Context, location manager.Location) (manager.ForecastRecord, error) {
	params := map[string]string{
		"latitude":      strconv.FormatFloat(location.Latitude, 'f', -1, 64),
		"longitude":     strconv.FormatFloat(location.Longitude, 'f', -1, 64),
		"current":       currentFields,
		"hourly":        hourlyFields,
		"daily":         dailyFields,
		"timezone":      "auto",
		"forecast_days": strconv.Itoa(f.days),
	}

	response, err := f.client.R().SetContext(ctx).SetQueryParams(params).Get(f.url)
	if err != nil {
		return manager.ForecastRecord{}, apis.TransportError("forecast request", err)
	}

	if !response.IsSuccess() {
		return manager.ForecastRecord{}, apis.StatusError(response)
	}

	var r result
	if err = r.unmarshal(response.Body()); err != nil {
		return manager.ForecastRecord{}, apis.TransportError("forecast response", err)
	}

	return manager.ForecastRecord{
		Location: location,
		Current:  r.current,
		Hourly:   r.hourly,
		Daily:    r.daily,
	}, nil
}

type result struct {
	current manager.Current
	hourly  manager.Hourly
	daily   manager.Daily
}

func (r *result) unmarshal(data []byte) error {
	type body struct {
		Current *struct {
			Time               string  `json:"time"`
			Temperature2m      float64 `json:"temperature_2m"`
			RelativeHumidity2m float64 `json:"relative_humidity_2m"`
			WeatherCode        int     `json:"weather_code"`
			WindSpeed10m       float64 `json:"wind_speed_10m"`
			WindDirection10m   float64 `json:"wind_direction_10m"`
			IsDay              int     `json:"is_day"`
		} `json:"current"`
		Hourly struct {
			Time                     []string  `json:"time"`
			Temperature2m            []float64 `json:"temperature_2m"`
			PrecipitationProbability []float64 `json:"precipitation_probability"`
			WeatherCode              []int     `json:"weather_code"`
		} `json:"hourly"`
		Daily struct {
			Time             []string  `json:"time"`
			WeatherCode      []int     `json:"weather_code"`
			Temperature2mMax []float64 `json:"temperature_2m_max"`
			Temperature2mMin []float64 `json:"temperature_2m_min"`
			Sunrise          []string  `json:"sunrise"`
			Sunset           []string  `json:"sunset"`
		} `json:"daily"`
	}

	var b body
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	if b.Current == nil {
		return errors.New("response has no current conditions")
	}

	r.current = manager.Current{
		Temperature:   b.Current.Temperature2m,
		WindSpeed:     b.Current.WindSpeed10m,
		WindDirection: b.Current.WindDirection10m,
		WeatherCode:   b.Current.WeatherCode,
		IsDay:         b.Current.IsDay != 0,
		Time:          b.Current.Time,
		Humidity:      int(math.Round(b.Current.RelativeHumidity2m)),
	}

	precipitation := make([]int, len(b.Hourly.PrecipitationProbability))
	for i, p := range b.Hourly.PrecipitationProbability {
		precipitation[i] = int(math.Round(p))
	}
	r.hourly = manager.Hourly{
		Time:                     b.Hourly.Time,
		Temperature:              b.Hourly.Temperature2m,
		PrecipitationProbability: precipitation,
		WeatherCode:              b.Hourly.WeatherCode,
	}

	r.daily = manager.Daily{
		Time:           b.Daily.Time,
		WeatherCode:    b.Daily.WeatherCode,
		TemperatureMax: b.Daily.Temperature2mMax,
		TemperatureMin: b.Daily.Temperature2mMin,
		Sunrise:        b.Daily.Sunrise,
		Sunset:         b.Daily.Sunset,
	}

	if !r.hourly.Valid() || !r.daily.Valid() {
		return errParallelArrays
	}
	return nil
}
