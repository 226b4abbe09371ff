package geocoding

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-resty/resty/v2"

	"stratos/apis"
	"stratos/config"
	"stratos/manager"
)

func New(cfg config.Geocoding) *geocoding {
	return &geocoding{
		client:   apis.NewClient(cfg.Timeout),
		url:      cfg.URL,
		count:    cfg.Count,
		language: cfg.Language,
	}
}

type geocoding struct {
	client   *resty.Client
	url      string
	count    int
	language string
}

// Search looks up places by name. A response without results is an empty
// list, not an error.
func (g geocoding) Search(ctx context.Context, query string) ([]manager.Location, error) {
	if manager.QueryTooShort(query) {
		return []manager.Location{}, nil
	}

	params := map[string]string{
		"name":     query,
		"count":    strconv.Itoa(g.count),
		"language": g.language,
		"format":   "json",
	}

	return processRequest(ctx, g.client, g.url, params)
}

func processRequest(ctx context.Context, client *resty.Client, path string, params map[string]string) ([]manager.Location, error) {
	type responseStruct struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Country   string  `json:"country"`
			Admin1    string  `json:"admin1"`
		} `json:"results"`
	}

	request := client.R().SetContext(ctx)
	request.SetQueryParams(params)

	response, err := request.Get(path)
	if err != nil {
		return nil, apis.TransportError("geocoding request", err)
	}

	if !response.IsSuccess() {
		return nil, apis.StatusError(response)
	}

	var r responseStruct
	if err = json.Unmarshal(response.Body(), &r); err != nil {
		return nil, apis.TransportError("geocoding response", err)
	}

	locations := make([]manager.Location, 0, len(r.Results))
	for _, item := range r.Results {
		locations = append(locations, manager.Location{
			Name:      item.Name,
			Latitude:  item.Latitude,
			Longitude: item.Longitude,
			Country:   item.Country,
			Region:    item.Admin1,
		})
	}

	return locations, nil
}
