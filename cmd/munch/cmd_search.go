package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"munch/cmd/munch/ui"
	"munch/internal/api"
	"munch/internal/nav"
	"munch/internal/results"
	"munch/internal/search"
	"munch/internal/status"

	"github.com/spf13/cobra"
)

var (
	searchTerm     string
	searchCuisines []string
	searchPrices   []string
	searchCities   []string
	searchJSON     bool
)

// searchCmd runs one fetch cycle without the interactive screen.
var searchCmd = &cobra.Command{
	Use:   "search [location]",
	Short: "Fetch all three lanes once and print them",
	Long: `Runs a single search cycle and prints the partner-approved, near-you and
recommended lanes. Either pass a location such as "/?query=sushi&city=Tokyo" or
build one with the filter flags.

Example:
  munch search --query "team dinner" --cuisines italian --prices '$$,$$$' --city Chicago`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// urlCmd prints the canonical location for the filter flags.
var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the canonical location for a search",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), flagLocation().String())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, urlCmd} {
		c.Flags().StringVarP(&searchTerm, "query", "q", "", "What you are looking for")
		c.Flags().StringSliceVar(&searchCuisines, "cuisines", nil, "Cuisines (italian, japanese, indian, french, mexican)")
		c.Flags().StringSliceVar(&searchPrices, "prices", nil, "Price tiers ($ to $$$$)")
		c.Flags().StringSliceVar(&searchCities, "city", nil, "Cities")
	}
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print lanes as JSON")
}

func flagLocation() nav.Location {
	q := search.Query{
		Term:     searchTerm,
		Cuisines: searchCuisines,
		Prices:   searchPrices,
		Cities:   searchCities,
	}
	return nav.Location{Path: "/", RawQuery: q.Encode()}
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loc := flagLocation()
	if len(args) > 0 {
		loc = nav.ParseLocation(args[0])
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, ch := status.NewScope(ctx)
	board := results.NewBoard(newAPIClient(cfg, store), ch, cfg.Search.DefaultCity)
	lanes := board.Run(ctx, loc)

	if searchJSON {
		return writeLanesJSON(cmd.OutOrStdout(), loc, board.City(), lanes)
	}
	writeLanesText(cmd.OutOrStdout(), ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)), board, lanes)
	return nil
}

type laneJSON struct {
	Lane        string           `json:"lane"`
	Restaurants []api.Restaurant `json:"restaurants"`
}

type searchJSONOut struct {
	Location string     `json:"location"`
	City     string     `json:"city"`
	Lanes    []laneJSON `json:"lanes"`
}

func writeLanesJSON(w io.Writer, loc nav.Location, city string, lanes []results.LaneState) error {
	out := searchJSONOut{Location: loc.String(), City: city}
	for i, lane := range results.Lanes {
		out.Lanes = append(out.Lanes, laneJSON{Lane: lane.String(), Restaurants: lanes[i].Items})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeLanesText(w io.Writer, s ui.Styles, board *results.Board, lanes []results.LaneState) {
	titles := []string{
		"Partner approved",
		"Near you in " + board.City(),
		"Recommended for you",
	}
	md := ui.NewMarkdownRenderer(s.Theme, 76)

	var parts []string
	for i, lane := range results.Lanes {
		if lane == results.Recommended && !board.Query().HasTerm() {
			continue
		}
		parts = append(parts, ui.RenderLane(s, titles[i], lanes[i].Items, false, "", md, 80))
	}
	fmt.Fprintln(w, ui.JoinLanes(s, parts, 80))
}
