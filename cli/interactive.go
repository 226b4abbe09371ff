package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stratos/manager"
)

const interactiveHelp = `type a place name to search, then:
  :N      select candidate N
  :here   use the device location
  :retry  reload the last location
  :q      quit
`

func newInteractiveCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Search and browse forecasts line by line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), app(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// lockedWriter serializes writes coming from listeners and timer goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) print(f func(io.Writer)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f(l.w)
}

type session struct {
	app *App
	out *lockedWriter

	mu         sync.Mutex
	candidates []manager.Location

	wg sync.WaitGroup
}

func runSession(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	s := &session{app: app, out: &lockedWriter{w: out}}

	app.Dashboard.OnChange(func(snapshot manager.Snapshot) {
		s.out.print(func(w io.Writer) {
			fmt.Fprintf(w, "\n")
			Render(w, snapshot)
		})
	})

	search := manager.NewSearch(ctx, app.Resolver, app.Config.Search.Debounce, s.showCandidates, app.Logger)
	defer search.Stop()

	s.out.print(func(w io.Writer) { fmt.Fprint(w, interactiveHelp) })
	s.run(ctx, app.Dashboard.Start)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ":") {
			search.Input(line)
			continue
		}

		switch cmd := strings.TrimPrefix(line, ":"); cmd {
		case "q", "quit":
			s.wait()
			return nil
		case "here":
			s.run(ctx, app.Dashboard.UseCurrentLocation)
		case "retry":
			s.run(ctx, app.Dashboard.Retry)
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				s.out.print(func(w io.Writer) { fmt.Fprintf(w, "unknown command %q\n", line) })
				continue
			}
			loc, ok := s.candidate(n)
			if !ok {
				s.out.print(func(w io.Writer) { fmt.Fprintf(w, "no candidate %d\n", n) })
				continue
			}
			search.Stop()
			s.run(ctx, func(ctx context.Context) error { return app.Dashboard.Select(ctx, loc) })
		}
	}

	s.wait()
	return scanner.Err()
}

func (s *session) showCandidates(result manager.SearchResult) {
	s.mu.Lock()
	s.candidates = result.Locations
	s.mu.Unlock()

	if manager.QueryTooShort(result.Query) {
		return
	}
	s.out.print(func(w io.Writer) { RenderCandidates(w, result.Locations) })
}

func (s *session) candidate(n int) (manager.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > len(s.candidates) {
		return manager.Location{}, false
	}
	return s.candidates[n-1], true
}

// run starts a dashboard action without blocking input, so a later selection
// can supersede one still in flight.
func (s *session) run(ctx context.Context, action func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := action(ctx)
		if err != nil && !errors.Is(err, manager.ErrSuperseded) {
			s.app.Logger.Debug("session_action_failed", "error", err.Error())
		}
	}()
}

func (s *session) wait() {
	s.wg.Wait()
	s.app.Dashboard.Wait()
}
