package nav

import "github.com/maxodo98/osr-gtfs-flex/routing"

// Config holds navigation-specific configuration
type Config struct {
	ValhallaURL    string                `toml:"valhalla_url"`
	DefaultProfile routing.SearchProfile `toml:"default_profile"`
	Units          DistanceUnit          `toml:"units"`
}

// RouteRequest represents the parameters for a routing request
type RouteRequest struct {
	FromLat  float64               `json:"fromLat"`
	FromLng  float64               `json:"fromLng"`
	ToLat    float64               `json:"toLat"`
	ToLng    float64               `json:"toLng"`
	FromDesc string                `json:"fromDesc,omitempty"`
	ToDesc   string                `json:"toDesc,omitempty"`
	Profile  routing.SearchProfile `json:"profile"`
	Units    DistanceUnit          `json:"units"`
}

// RouteStep represents a single navigation step
type RouteStep struct {
	Number      int     `json:"number"`
	Description string  `json:"description"`
	Distance    float64 `json:"distance"` // in specified units
	Icon        string  `json:"icon"`
}

// PathPoint represents a normalized point on the route path
type PathPoint [2]int // [x, y] normalized to 0-NormalizedGridSize

// Path represents the complete path with metadata
type Path struct {
	Points []PathPoint `json:"points"`
	Length int         `json:"length"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

// Location represents a point with description and coordinates
type Location struct {
	Desc string  `json:"desc"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RouteResponse represents the response from the routing endpoint
type RouteResponse struct {
	Duration float64               `json:"duration"` // in seconds
	Distance float64               `json:"distance"` // in specified units
	Units    DistanceUnit          `json:"units"`
	Steps    []RouteStep           `json:"steps"`
	Path     Path                  `json:"path"`
	Profile  routing.SearchProfile `json:"profile"`
	Mode     routing.Mode          `json:"mode"` // primary mode of Profile
	From     Location              `json:"from"`
	To       Location              `json:"to"`
}

// ProfileInfo describes one accepted search profile
type ProfileInfo struct {
	Name string       `json:"name"`
	Mode routing.Mode `json:"mode"`
}

// ProfilesResponse lists the accepted search profiles
type ProfilesResponse struct {
	Profiles []ProfileInfo         `json:"profiles"`
	Default  routing.SearchProfile `json:"default"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
