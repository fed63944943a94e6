package main

import (
	"context"
	"fmt"
	"net/http"

	"munch/cmd/munch/home"
	"munch/cmd/munch/ui"
	"munch/internal/api"
	"munch/internal/composer"
	"munch/internal/config"
	"munch/internal/geo"
	"munch/internal/keystore"
	"munch/internal/logging"
	"munch/internal/nav"
	"munch/internal/results"
	"munch/internal/status"

	tea "github.com/charmbracelet/bubbletea"
)

// openStore opens the key store and seeds it from OPENAI_API_KEY when empty.
func openStore(ctx context.Context, c *config.Config) (*keystore.Store, error) {
	store, err := keystore.Open(c.StorePath())
	if err != nil {
		return nil, fmt.Errorf("open key store: %w", err)
	}
	if err := store.SeedAPIKey(ctx, config.EnvAPIKey()); err != nil {
		logging.Get(logging.CategoryStore).Warn("seeding api key from environment failed: %v", err)
	}
	return store, nil
}

func newAPIClient(c *config.Config, keys api.KeySource) *api.Client {
	return api.NewClient(c.API.BaseURL,
		api.WithKeySource(keys),
		api.WithTimeout(c.GetAPITimeout()),
	)
}

// newEnricher builds the city detector, or nil when detection is off.
func newEnricher(c *config.Config) *geo.Enricher {
	if !c.GeoActive() {
		return nil
	}

	var source geo.PositionSource
	switch c.Geo.Source {
	case "static":
		source = geo.StaticSource{Coords: geo.Coordinates{Lat: c.Geo.Latitude, Lon: c.Geo.Longitude}}
	default:
		source = geo.IPSource{URL: c.Geo.IPLookupURL, Client: &http.Client{Timeout: c.GetGeoTimeout()}}
	}
	source = &geo.CachedSource{Source: source, MaxAge: c.GetGeoMaximumAge()}

	coder := geo.NewGeocoder(c.Geo.NominatimURL, c.Geo.UserAgent, c.GetGeoTimeout())
	return geo.NewEnricher(source, coder, c.GetGeoTimeout())
}

// initialHistory parses the startup location and applies the restore policy.
func initialHistory(c *config.Config, start string) *nav.History {
	h := nav.NewHistory(nav.ParseLocation(start))
	if c.UI.ClearQueryOnRestore && nav.ClearQueryOnRestore(h) {
		logging.Nav("cleared restored query, starting at %s", h.Current().String())
	}
	return h
}

func runInteractive(ctx context.Context, start string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, ch := status.NewScope(ctx)
	unsubscribe := ch.Subscribe(func(loading bool) {
		logging.UIDebug("recommendations loading=%v", loading)
	})
	defer unsubscribe()

	history := initialHistory(cfg, start)
	client := newAPIClient(cfg, store)

	model := home.New(home.Deps{
		Ctx:      ctx,
		History:  history,
		Composer: composer.New(history, status.FromContext(ctx)),
		Board:    results.NewBoard(client, status.FromContext(ctx), cfg.Search.DefaultCity),
		Enricher: newEnricher(cfg),
		Styles:   ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
