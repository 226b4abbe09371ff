package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"stratos/config"
	"stratos/manager"
	"stratos/server"
	"stratos/theme"
)

// App is everything the commands need, built once the flags are parsed.
type App struct {
	Config    config.Config
	Resolver  *manager.Resolver
	Dashboard *manager.Dashboard
	Logger    *slog.Logger
}

// Builder constructs the App from the --config path.
type Builder func(configPath string) (*App, error)

func New(build Builder) (*cobra.Command, error) {
	if build == nil {
		return nil, errors.New("cli: nil builder")
	}

	var (
		app        *App
		configPath string
		lat, lon   float64
		name       string
		here       bool
	)

	cmd := &cobra.Command{
		Use:           "stratos [place...]",
		Short:         "Weather dashboard with forecasts and a short AI summary",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = build(configPath)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := app.Dashboard

			var err error
			switch {
			case here:
				err = d.UseCurrentLocation(ctx)
			case cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon"):
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return errors.New("--lat and --lon must be given together")
				}
				if name == "" {
					name = fmt.Sprintf("%.4f, %.4f", lat, lon)
				}
				err = d.Select(ctx, manager.Location{Name: name, Latitude: lat, Longitude: lon})
			case len(args) > 0:
				var loc manager.Location
				loc, err = resolveFirst(ctx, app.Resolver, strings.Join(args, " "))
				if err != nil {
					return err
				}
				err = d.Select(ctx, loc)
			default:
				err = d.Start(ctx)
			}

			d.Wait()
			Render(cmd.OutOrStdout(), d.Snapshot())
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to the embedded one)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the place")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the place")
	cmd.Flags().StringVar(&name, "name", "", "display name used with --lat/--lon")
	cmd.Flags().BoolVar(&here, "here", false, "use the device's approximate location")
	cmd.MarkFlagsMutuallyExclusive("here", "lat")
	cmd.MarkFlagsMutuallyExclusive("here", "lon")

	cmd.AddCommand(
		newSearchCommand(func() *App { return app }),
		newThemeCommand(),
		newInteractiveCommand(func() *App { return app }),
		newServeCommand(func() *App { return app }),
	)

	return cmd, nil
}

func resolveFirst(ctx context.Context, resolver *manager.Resolver, query string) (manager.Location, error) {
	locations := resolver.Search(ctx, query)
	if len(locations) == 0 {
		return manager.Location{}, fmt.Errorf("%w: no place matches %q", manager.ErrNotFound, query)
	}
	return locations[0], nil
}

func newSearchCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "List places matching a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locations := app().Resolver.Search(cmd.Context(), strings.Join(args, " "))
			RenderCandidates(cmd.OutOrStdout(), locations)
			return nil
		},
	}
}

func newThemeCommand() *cobra.Command {
	var (
		code  int
		night bool
		wind  float64
	)
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the background theme for a weather code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wind < 0 {
				return fmt.Errorf("wind must not be negative, got %g", wind)
			}
			RenderTheme(cmd.OutOrStdout(), code, !night, theme.Derive(code, !night, wind))
			return nil
		},
	}
	cmd.Flags().IntVar(&code, "code", 0, "WMO weather code")
	cmd.Flags().BoolVar(&night, "night", false, "derive the night variant")
	cmd.Flags().Float64Var(&wind, "wind", 0, "wind speed in km/h")
	return cmd
}

func newServeCommand(app func() *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if addr == "" {
				addr = a.Config.Server.Addr
			}

			go func() {
				if err := a.Dashboard.Start(cmd.Context()); err != nil && !errors.Is(err, manager.ErrSuperseded) {
					a.Logger.Warn("initial_load_failed", "error", err.Error())
				}
			}()

			return server.New(a.Dashboard, a.Resolver, a.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr)")
	return cmd
}
