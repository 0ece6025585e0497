package recommend

import "github.com/spigell/jobchat/internal/profile"

// Request is the single request type understood by the recommendation service.
type Request struct {
	Profile RequestProfile `json:"profile"`
	Filter  RequestFilter  `json:"filter"`
}

type RequestProfile struct {
	FieldOfStudy string   `json:"fieldOfStudy"`
	Semester     int      `json:"semester"`
	Place        string   `json:"place"`
	HoursPerWeek int      `json:"hoursPerWeek"`
	Interests    []string `json:"interests"`
}

type RequestFilter struct {
	SearchType string `json:"searchType"`
	RadiusKm   int    `json:"radiusKm"`
	Place      string `json:"place"`
	Keywords   string `json:"keywords"`
}

// Fallback holds the values substituted for slots the user never filled.
type Fallback struct {
	Place      string
	Hours      int
	SearchType profile.SearchType
	Keywords   string
}

// DefaultFallback returns the built-in fallback values.
func DefaultFallback() Fallback {
	return Fallback{
		Place:      "Gummersbach",
		Hours:      20,
		SearchType: profile.SearchEither,
		Keywords:   "project management",
	}
}

// BuildRequest assembles the service payload from a profile snapshot.
func BuildRequest(p profile.Profile, fb Fallback) Request {
	place := p.Place
	if place == "" {
		place = fb.Place
	}

	searchType := p.SearchType
	if searchType == profile.SearchUnknown {
		searchType = fb.SearchType
	}

	keywords := p.Keywords
	if keywords == "" {
		keywords = fb.Keywords
	}

	radius := p.RadiusKm
	if radius == 0 {
		radius = profile.DefaultRadiusKm
	}

	return Request{
		Profile: RequestProfile{
			FieldOfStudy: p.FieldOfStudy,
			Semester:     p.Semester,
			Place:        place,
			HoursPerWeek: p.Hours(fb.Hours),
			Interests:    p.Interests,
		},
		Filter: RequestFilter{
			SearchType: string(searchType),
			RadiusKm:   radius,
			Place:      place,
			Keywords:   keywords,
		},
	}
}
