package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"stratos/theme"
)

type LoadingState int

const (
	Idle LoadingState = iota
	Loading
	Success
	Error
)

var loadingStateNames = map[LoadingState]string{
	Idle:    "idle",
	Loading: "loading",
	Success: "success",
	Error:   "error",
}

func (s LoadingState) String() string { return loadingStateNames[s] }

func (s LoadingState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

const (
	alertGeolocationDenied      = "Could not retrieve location. Please check permissions."
	alertGeolocationUnsupported = "Geolocation is not supported on this device."
)

// Snapshot is what a render pass sees.
type Snapshot struct {
	State            LoadingState     `json:"state"`
	Requested        *Location        `json:"requested,omitempty"`
	Forecast         *ForecastRecord  `json:"forecast,omitempty"`
	Theme            theme.Descriptor `json:"theme"`
	Label            string           `json:"label,omitempty"`
	Icon             string           `json:"icon,omitempty"`
	Narrative        string           `json:"narrative,omitempty"`
	NarrativeLoading bool             `json:"narrativeLoading"`
	Error            string           `json:"error,omitempty"`
	Alert            string           `json:"alert,omitempty"`
}

type Option func(*Dashboard)

func WithLocator(l Locator) Option { return func(d *Dashboard) { d.locator = l } }

// WithDefaultLocation sets the location used by Start and by Retry before
// anything has been requested.
func WithDefaultLocation(l Location) Option { return func(d *Dashboard) { d.fallback = l } }

func WithLogger(l *slog.Logger) Option { return func(d *Dashboard) { d.logger = l } }

// Dashboard owns the forecast, narrative and theme of one session view and
// runs the two-stage pipeline: forecast first, then the narrative, started
// only with the forecast record that succeeded.
//
// Every Select bumps a sequence token; results carrying an older token are
// dropped, so the most recently issued request always wins.
type Dashboard struct {
	forecast Forecast
	narrator Narrator
	locator  Locator
	fallback Location
	logger   *slog.Logger

	mu               sync.Mutex
	seq              uint64
	state            LoadingState
	requested        *Location
	record           *ForecastRecord
	narrative        string
	narrativeLoading bool
	lastErr          error
	alert            string
	listeners        []func(Snapshot)

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// New builds a dashboard. narrator may be nil, in which case no narrative is
// ever requested.
func New(forecast Forecast, narrator Narrator, opts ...Option) *Dashboard {
	d := &Dashboard{
		forecast: forecast,
		narrator: narrator,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnChange registers fn to receive a snapshot after every state change.
func (d *Dashboard) OnChange(fn func(Snapshot)) {
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}

// Start loads the default location.
func (d *Dashboard) Start(ctx context.Context) error {
	return d.Select(ctx, d.fallback)
}

// Retry re-issues the last requested location, or the default one.
func (d *Dashboard) Retry(ctx context.Context) error {
	d.mu.Lock()
	loc := d.fallback
	if d.requested != nil {
		loc = *d.requested
	}
	d.mu.Unlock()
	return d.Select(ctx, loc)
}

// Select enters Loading, clears the narrative of the previous location and
// fetches the forecast. The previous record stays visible until the new one
// arrives and is kept when the fetch fails.
func (d *Dashboard) Select(ctx context.Context, loc Location) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.state = Loading
	d.requested = &loc
	d.narrative = ""
	d.narrativeLoading = false
	d.lastErr = nil
	d.alert = ""
	d.mu.Unlock()
	d.notify()

	d.logger.Info("forecast_requested", "location", loc.Name, "latitude", loc.Latitude, "longitude", loc.Longitude)
	record, err := d.forecast.Get(ctx, loc)

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		d.logger.Debug("forecast_stale_discarded", "location", loc.Name)
		return ErrSuperseded
	}
	if err != nil {
		d.state = Error
		d.lastErr = err
		d.mu.Unlock()
		d.logger.Error("forecast_failed", "location", loc.Name, "error", err.Error())
		d.notify()
		return err
	}
	d.record = &record
	d.state = Success
	d.narrativeLoading = d.narrator != nil
	d.mu.Unlock()
	d.logger.Info("forecast_fetched", "location", loc.Name, "hours", record.Hourly.Len(), "days", record.Daily.Len())
	d.notify()

	if d.narrator != nil {
		d.wg.Add(1)
		go d.narrate(context.WithoutCancel(ctx), seq, record)
	}
	return nil
}

// UseCurrentLocation resolves the device position and selects it. When the
// position is unavailable an alert is raised and the pipeline is not started.
func (d *Dashboard) UseCurrentLocation(ctx context.Context) error {
	if d.locator == nil {
		d.raise(alertGeolocationUnsupported)
		return fmt.Errorf("%w: no locator configured", ErrGeolocationDenied)
	}

	loc, err := d.locator.Locate(ctx)
	if err != nil {
		d.logger.Warn("geolocation_failed", "error", err.Error())
		d.raise(alertGeolocationDenied)
		if errors.Is(err, ErrGeolocationDenied) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrGeolocationDenied, err)
	}

	loc.Name = CurrentLocationName
	return d.Select(ctx, loc)
}

// Wait blocks until every started narrative has finished.
func (d *Dashboard) Wait() {
	d.wg.Wait()
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	s := Snapshot{
		State:            d.state,
		Theme:            theme.Default(),
		Narrative:        d.narrative,
		NarrativeLoading: d.narrativeLoading,
		Alert:            d.alert,
	}
	if d.requested != nil {
		loc := *d.requested
		s.Requested = &loc
	}
	if d.record != nil {
		record := *d.record
		c := record.Current
		s.Forecast = &record
		s.Theme = theme.Derive(c.WeatherCode, c.IsDay, c.WindSpeed)
		s.Label = theme.Label(c.WeatherCode)
		s.Icon = theme.Icon(c.WeatherCode, c.IsDay)
	}
	if d.lastErr != nil {
		s.Error = d.lastErr.Error()
	}
	return s
}

func (d *Dashboard) narrate(ctx context.Context, seq uint64, record ForecastRecord) {
	defer d.wg.Done()

	text := d.narrator.Summarize(ctx, record)

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		d.logger.Debug("narrative_stale_discarded", "location", record.Location.Name)
		return
	}
	d.narrative = text
	d.narrativeLoading = false
	d.mu.Unlock()
	d.notify()
}

func (d *Dashboard) raise(alert string) {
	d.mu.Lock()
	d.alert = alert
	d.mu.Unlock()
	d.notify()
}

// notify hands listeners a snapshot. Taking the snapshot under notifyMu keeps
// listeners from seeing states out of order.
func (d *Dashboard) notify() {
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()

	d.mu.Lock()
	s := d.snapshotLocked()
	listeners := append([]func(Snapshot){}, d.listeners...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
