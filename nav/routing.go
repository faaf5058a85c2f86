package nav

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/maxodo98/osr-gtfs-flex/routing"
	"github.com/twpayne/go-polyline"
)

// ErrNoRoute is returned when Valhalla cannot connect the two locations
var ErrNoRoute = errors.New("no route found: locations are not connected in the transportation network")

// valhallaNoRoute is Valhalla's error code for disconnected locations
const valhallaNoRoute = 170

type valhallaLocation struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type"`
}

type valhallaRequest struct {
	Locations      []valhallaLocation `json:"locations"`
	Costing        string             `json:"costing"`
	Units          string             `json:"units"`
	CostingOptions map[string]any     `json:"costing_options,omitempty"`
}

type valhallaManeuver struct {
	Type        int     `json:"type"`
	Instruction string  `json:"instruction"`
	Distance    float64 `json:"length"`
}

type valhallaLeg struct {
	Maneuvers []valhallaManeuver `json:"maneuvers"`
	Shape     string             `json:"shape"`
}

type valhallaResponse struct {
	Trip struct {
		Legs    []valhallaLeg `json:"legs"`
		Summary struct {
			Time     float64 `json:"time"`
			Distance float64 `json:"length"`
		} `json:"summary"`
	} `json:"trip"`
}

type valhallaError struct {
	ErrorCode  int    `json:"error_code"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
}

// Option configures a Service
type Option func(*Service)

// WithHTTPClient sets the client used to reach Valhalla
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// Service computes routes for a search profile by delegating to Valhalla
type Service struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewService creates a Service. Empty units fall back to DefaultUnit.
func NewService(cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if cfg.Units == "" {
		cfg.Units = DefaultUnit
	}
	s := &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// costing returns the Valhalla costing model and options for a profile
func costing(p routing.SearchProfile) (string, map[string]any) {
	options := map[string]any{
		"auto":       map[string]any{"use_display_name": false},
		"pedestrian": map[string]any{"use_display_name": false},
		"bicycle":    map[string]any{"use_display_name": false},
	}
	if p.IsWheelchair() {
		options["pedestrian"] = map[string]any{
			"use_display_name": false,
			"type":             "wheelchair",
		}
	}

	// Valhalla has no park-and-walk costing; parking profiles drive door to door
	if p.IsParking() {
		return "auto", options
	}
	if p.IsSharing() {
		return "bikeshare", options
	}

	switch p.Mode() {
	case routing.ModeFoot, routing.ModeWheelchair:
		return "pedestrian", options
	case routing.ModeBike:
		return "bicycle", options
	case routing.ModeFlex:
		return "taxi", options
	default:
		return "auto", options
	}
}

func convertDistance(meters float64, units DistanceUnit) float64 {
	if units == UnitMiles {
		return meters / metersPerMile
	}
	return meters / 1000
}

// startIcon is the icon of the first step for a profile
func startIcon(p routing.SearchProfile) string {
	switch p.Mode() {
	case routing.ModeBike:
		return "Cycle"
	case routing.ModeFoot, routing.ModeWheelchair:
		return "Walk"
	default:
		return "Drive"
	}
}

// Route computes a route between the two locations of req
func (s *Service) Route(ctx context.Context, req RouteRequest) (*RouteResponse, error) {
	if !req.Profile.IsValid() {
		return nil, fmt.Errorf("invalid profile: %s", req.Profile)
	}
	if req.Units == "" {
		req.Units = s.cfg.Units
	} else if !req.Units.IsValid() {
		return nil, fmt.Errorf("invalid units: must be one of: %s, %s", UnitKilometers, UnitMiles)
	}

	costingName, options := costing(req.Profile)
	vReq := valhallaRequest{
		Locations: []valhallaLocation{
			{Lat: req.FromLat, Lon: req.FromLng, Type: "break"},
			{Lat: req.ToLat, Lon: req.ToLng, Type: "break"},
		},
		Costing:        costingName,
		Units:          "kilometers", // lengths come back in km and are converted below
		CostingOptions: options,
	}

	reqBody, err := json.Marshal(vReq)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ValhallaURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("error creating Valhalla request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	s.logger.Debug("requesting route", "profile", req.Profile, "costing", costingName)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request to Valhalla: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("valhalla API returned status %d, failed to read error message: %w", resp.StatusCode, err)
		}

		var vErr valhallaError
		if err := json.Unmarshal(errorBody, &vErr); err == nil && vErr.ErrorCode != 0 {
			if vErr.ErrorCode == valhallaNoRoute {
				return nil, ErrNoRoute
			}
			return nil, fmt.Errorf("routing error: %s", vErr.Error)
		}

		return nil, fmt.Errorf("valhalla API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errorBody)))
	}

	var vResp valhallaResponse
	if err := json.NewDecoder(resp.Body).Decode(&vResp); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	result := &RouteResponse{
		Duration: vResp.Trip.Summary.Time,
		Distance: convertDistance(vResp.Trip.Summary.Distance*1000, req.Units),
		Units:    req.Units,
		Profile:  req.Profile,
		Mode:     req.Profile.Mode(),
		From: Location{
			Desc: req.FromDesc,
			Lat:  req.FromLat,
			Lng:  req.FromLng,
		},
		To: Location{
			Desc: req.ToDesc,
			Lat:  req.ToLat,
			Lng:  req.ToLng,
		},
	}

	if len(vResp.Trip.Legs) > 0 {
		leg := vResp.Trip.Legs[0]
		for i, maneuver := range leg.Maneuvers {
			step := RouteStep{
				Number:      i + 1,
				Description: abbreviateInstruction(maneuver.Instruction),
				Distance:    convertDistance(maneuver.Distance*1000, req.Units),
				Icon:        stepIcon(maneuver.Type),
			}
			if i == 0 {
				step.Icon = startIcon(req.Profile)
			}
			result.Steps = append(result.Steps, step)
		}

		points, err := decodePath(leg.Shape)
		if err != nil {
			return nil, fmt.Errorf("error decoding route shape: %w", err)
		}
		result.Path = Path{
			Points: points,
			Length: len(points),
			Width:  NormalizedGridSize,
			Height: NormalizedGridSize,
		}
	}

	return result, nil
}

// decodePath decodes an encoded polyline (precision 5) and normalizes it onto
// the NormalizedGridSize grid, dropping points within 2 grid units of an
// earlier point.
func decodePath(encoded string) ([]PathPoint, error) {
	if encoded == "" {
		return []PathPoint{}, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return []PathPoint{}, nil
	}

	minLat, maxLat := coords[0][0], coords[0][0]
	minLng, maxLng := coords[0][1], coords[0][1]
	for _, c := range coords[1:] {
		minLat = math.Min(minLat, c[0])
		maxLat = math.Max(maxLat, c[0])
		minLng = math.Min(minLng, c[1])
		maxLng = math.Max(maxLng, c[1])
	}

	latRange := maxLat - minLat
	if latRange == 0 {
		latRange = 1
	}
	lngRange := maxLng - minLng
	if lngRange == 0 {
		lngRange = 1
	}

	var points []PathPoint
	for _, c := range coords {
		x := int(math.Round((c[1] - minLng) / lngRange * NormalizedGridSize))
		y := int(math.Round((c[0] - minLat) / latRange * NormalizedGridSize))
		x = max(0, min(NormalizedGridSize, x))
		y = max(0, min(NormalizedGridSize, y))

		isDuplicate := false
		for _, existing := range points {
			if abs(x-existing[0])+abs(y-existing[1]) <= 2 {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			points = append(points, PathPoint{x, y})
		}
	}

	return points, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var instructionAbbrev = strings.NewReplacer(
	" onto ", " on ",
	" Avenue", " Ave",
	" Street", " St",
	" Road", " Rd",
	" Boulevard", " Blvd",
	" Drive", " Dr",
	" Court", " Ct",
	" Circle", " Cir",
	" Highway", " Hwy",
	" Parkway", " Pkwy",
	" Place", " Pl",
	" Square", " Sq",
	" Terrace", " Ter",
	" Trail", " Trl",
	" Turnpike", " Tpke",
	" Lane", " Ln",
	" North ", " N ",
	" South ", " S ",
	" East ", " E ",
	" West ", " W ",
	" Northeast ", " NE ",
	" Northwest ", " NW ",
	" Southeast ", " SE ",
	" Southwest ", " SW ",
)

// abbreviateInstruction shortens street names in a maneuver instruction
func abbreviateInstruction(instruction string) string {
	if strings.Contains(instruction, "You have arrived at your destination") {
		return "Arrive at destination"
	}
	instruction = strings.TrimSuffix(instruction, ".")
	return instructionAbbrev.Replace(instruction)
}

// stepIcon maps a Valhalla maneuver type to an icon name
func stepIcon(maneuverType int) string {
	switch maneuverType {
	case 1, 2, 10, 11, 12: // Right/Sharp right turn
		return "Right"
	case 3, 13, 14, 15, 19: // Left/Sharp left turn
		return "Left"
	case 9, 23: // Slight right
		return "right"
	case 16, 24: // Slight left
		return "left"
	case 7, 8, 17, 22:
		return "Straight"
	case 25, 26, 37, 38:
		return "Merge"
	case 20, 21, 27: // Exit/Ramp
		return "Exit"
	case 28, 29:
		return "Ferry"
	case 42, 43:
		return "building"
	default:
		return ""
	}
}
