package model

import "strings"

// College represents one entry of the static college catalog.  Records are
// loaded once at startup and never mutated afterwards, so handlers may hand
// them out by value without copying the Courses slice.
//
// Fields:
//  ID          – identifier, unique across every stream of the catalog.
//  Name        – institution name.
//  Location    – "City, State" style location string.
//  Type        – ownership type (e.g. Government, Private, Deemed).
//  Courses     – ordered list of programmes offered.
//  Fees        – human readable fee summary.
//  Phone       – admissions contact number.
//  Website     – institution home page.
//  Image       – URL of a banner image.
//  Ranking     – NIRF rank (0 when unranked).
//  Description – short free-text description.
type College struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Courses     []string `json:"courses"`
	Fees        string   `json:"fees"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	Image       string   `json:"image"`
	Ranking     int      `json:"ranking"`
	Description string   `json:"description"`
}

// Stream partitions the catalog.  It is not stored on the College itself.
type Stream string

const (
	StreamArts        Stream = "arts"
	StreamCommerce    Stream = "commerce"
	StreamBTech       Stream = "btech"
	StreamPolytechnic Stream = "polytechnic"
)

// StreamOrder is the fixed enumeration order of the catalog.  Listing the
// whole catalog concatenates streams in this order and lookup by id returns
// the first match found while scanning it.
var StreamOrder = []Stream{StreamArts, StreamCommerce, StreamBTech, StreamPolytechnic}

// DisplayName upper-cases the first character and leaves the rest unchanged.
func (s Stream) DisplayName() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// StreamSummary is one row of the stream listing.
type StreamSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
}

// FilterOptions lists the distinct values a client can offer as filter
// choices for one stream.
type FilterOptions struct {
	Types     []string `json:"types"`
	Locations []string `json:"locations"`
	Courses   []string `json:"courses"`
}
