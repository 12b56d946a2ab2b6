package service

import (
	"slices"
	"strings"

	"github.com/iliyamo/pathfinder-api/internal/model"
	"github.com/iliyamo/pathfinder-api/internal/repository"
)

// CollegeQuery narrows a college listing.  Empty fields are ignored; set
// fields are combined with AND.
type CollegeQuery struct {
	Stream   string
	Type     string
	Location string
	Course   string
	// Search matches name, location or description.
	Search string
}

// CollegeList is the result of a listing.
type CollegeList struct {
	Count int             `json:"count"`
	Data  []model.College `json:"data"`
}

// CatalogService answers read-only queries over the college catalog.
type CatalogService struct {
	store repository.CatalogStore
}

func NewCatalogService(store repository.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// List returns the colleges of q.Stream (or of every stream in
// model.StreamOrder when empty) that match all other filters.  An unknown
// stream is ErrNotFound; an empty match is not an error.
func (s *CatalogService) List(q CollegeQuery) (CollegeList, error) {
	var colleges []model.College
	if q.Stream != "" {
		list, ok := s.store.ListByStream(model.Stream(q.Stream))
		if !ok {
			return CollegeList{}, newError(ErrNotFound, "Stream not found")
		}
		colleges = list
	} else {
		for _, stream := range s.store.Streams() {
			list, _ := s.store.ListByStream(stream)
			colleges = append(colleges, list...)
		}
	}

	out := make([]model.College, 0, len(colleges))
	for _, c := range colleges {
		if matches(c, q) {
			out = append(out, c)
		}
	}
	return CollegeList{Count: len(out), Data: out}, nil
}

// Get scans streams in model.StreamOrder and returns the first college with
// the given id.
func (s *CatalogService) Get(id int) (model.College, error) {
	for _, stream := range s.store.Streams() {
		list, _ := s.store.ListByStream(stream)
		for _, c := range list {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return model.College{}, newError(ErrNotFound, "College not found")
}

// Streams lists every partition with its display label and size.
func (s *CatalogService) Streams() []model.StreamSummary {
	streams := s.store.Streams()
	out := make([]model.StreamSummary, 0, len(streams))
	for _, stream := range streams {
		list, _ := s.store.ListByStream(stream)
		out = append(out, model.StreamSummary{
			Name:        string(stream),
			DisplayName: stream.DisplayName(),
			Count:       len(list),
		})
	}
	return out
}

// FilterOptions returns the distinct types, cities and courses of a stream
// in first-seen order.
func (s *CatalogService) FilterOptions(stream string) (model.FilterOptions, error) {
	list, ok := s.store.ListByStream(model.Stream(stream))
	if !ok {
		return model.FilterOptions{}, newError(ErrNotFound, "Stream not found")
	}
	opts := model.FilterOptions{Types: []string{}, Locations: []string{}, Courses: []string{}}
	for _, c := range list {
		opts.Types = appendUnique(opts.Types, c.Type)
		opts.Locations = appendUnique(opts.Locations, region(c.Location))
		for _, course := range c.Courses {
			opts.Courses = appendUnique(opts.Courses, course)
		}
	}
	return opts, nil
}

func matches(c model.College, q CollegeQuery) bool {
	if q.Type != "" && !containsFold(c.Type, q.Type) {
		return false
	}
	if q.Location != "" && !containsFold(c.Location, q.Location) {
		return false
	}
	if q.Course != "" && !slices.ContainsFunc(c.Courses, func(course string) bool {
		return containsFold(course, q.Course)
	}) {
		return false
	}
	if q.Search != "" && !containsFold(c.Name, q.Search) &&
		!containsFold(c.Location, q.Search) && !containsFold(c.Description, q.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// region returns the segment of a "City, State" location that follows the
// first comma, or the whole location when there is none.
func region(location string) string {
	if _, after, ok := strings.Cut(location, ","); ok {
		seg, _, _ := strings.Cut(after, ",")
		if r := strings.TrimSpace(seg); r != "" {
			return r
		}
	}
	return location
}

func appendUnique(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
