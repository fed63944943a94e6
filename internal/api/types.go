package api

import (
	"fmt"
	"strings"
)

// Restaurant is one result record. It is read-only to the client.
type Restaurant struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	Price       string     `json:"price,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Location    Location   `json:"location"`
	Categories  []Category `json:"categories,omitempty"`

	// Rationale is only populated by the recommended endpoint.
	Rationale string `json:"rationale,omitempty"`
}

// Location is the address block of a restaurant.
type Location struct {
	Address1       string   `json:"address1,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	ZipCode        string   `json:"zip_code,omitempty"`
	Country        string   `json:"country,omitempty"`
	DisplayAddress []string `json:"display_address"`
}

// Category is a cuisine tag.
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Address joins the display address lines.
func (r Restaurant) Address() string {
	return strings.Join(r.Location.DisplayAddress, ", ")
}

// RatingLine renders "4.5 ★ (120 reviews)".
func (r Restaurant) RatingLine() string {
	return fmt.Sprintf("%g ★ (%d reviews)", r.Rating, r.ReviewCount)
}

// RecommendParams are the inputs of the recommended endpoint.
type RecommendParams struct {
	Query    string
	City     string
	Cuisines []string
	Prices   []string
}
