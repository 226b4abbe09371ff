package iplocation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"stratos/apis"
	"stratos/config"
	"stratos/manager"
)

func New(cfg config.Geolocation) *locator {
	return &locator{
		client: apis.NewClient(cfg.Timeout),
		url:    cfg.URL,
	}
}

type locator struct {
	client *resty.Client
	url    string
}

// Locate approximates the device position from its public address. Any
// failure is reported as manager.ErrGeolocationDenied.
func (l locator) Locate(ctx context.Context) (manager.Location, error) {
	type responseStruct struct {
		Status     string  `json:"status"`
		Message    string  `json:"message"`
		Lat        float64 `json:"lat"`
		Lon        float64 `json:"lon"`
		City       string  `json:"city"`
		RegionName string  `json:"regionName"`
		Country    string  `json:"country"`
	}

	response, err := l.client.R().SetContext(ctx).Get(l.url)
	if err != nil {
		return manager.Location{}, fmt.Errorf("%w: %v", manager.ErrGeolocationDenied, err)
	}

	if !response.IsSuccess() {
		return manager.Location{}, fmt.Errorf("%w: status code: %d", manager.ErrGeolocationDenied, response.StatusCode())
	}

	var r responseStruct
	if err = json.Unmarshal(response.Body(), &r); err != nil {
		return manager.Location{}, fmt.Errorf("%w: %v", manager.ErrGeolocationDenied, err)
	}

	if r.Status != "success" {
		return manager.Location{}, fmt.Errorf("%w: %s", manager.ErrGeolocationDenied, r.Message)
	}

	return manager.Location{
		Name:      r.City,
		Latitude:  r.Lat,
		Longitude: r.Lon,
		Country:   r.Country,
		Region:    r.RegionName,
	}, nil
}
