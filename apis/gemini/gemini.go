package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-resty/resty/v2"

	"stratos/apis"
	"stratos/config"
)

// ErrNoCredential is returned when no API key is configured. No request is made.
var ErrNoCredential = errors.New("gemini: api key is not configured")

func New(cfg config.Gemini) *gemini {
	return &gemini{
		client: apis.NewClient(cfg.Timeout),
		url:    strings.TrimRight(cfg.URL, "/"),
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

type gemini struct {
	client *resty.Client
	url    string
	model  string
	apiKey string
}

// Generate sends prompt as a single user turn and returns the concatenated
// text parts of the first candidate. Empty text is not an error.
func (g gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoCredential
	}

	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Parts []part `json:"parts"`
	}
	body := struct {
		Contents []content `json:"contents"`
	}{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	response, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(g.url + "/models/" + g.model + ":generateContent")
	if err != nil {
		return "", apis.TransportError("gemini request", err)
	}

	if !response.IsSuccess() {
		return "", apis.StatusError(response)
	}

	var r struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
	}
	if err = json.Unmarshal(response.Body(), &r); err != nil {
		return "", apis.TransportError("gemini response", err)
	}

	if len(r.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
