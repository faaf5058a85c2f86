package nav

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/maxodo98/osr-gtfs-flex/routing"
)

// RegisterRoutes registers the navigation endpoints on router
func (s *Service) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/nav/route", s.HandleRoute).Methods(http.MethodGet)
	router.HandleFunc("/nav/route", s.HandleRoutePlain).Methods(http.MethodPost)
	router.HandleFunc("/nav/profiles", s.HandleProfiles).Methods(http.MethodGet)
}

// Helper functions for formatting
func formatDuration(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dhr %dmin", hours, minutes)
		}
		return fmt.Sprintf("%dhr", hours)
	}
	return fmt.Sprintf("%dmin", minutes)
}

func formatDistance(distance float64, units DistanceUnit) string {
	if units == UnitMiles {
		if distance < 0.1 {
			feet := distance * 5280
			return fmt.Sprintf("%.0fft", feet)
		}
		return fmt.Sprintf("%.1fmi", distance)
	}
	if distance < 1.0 {
		return fmt.Sprintf("%.0fm", distance*1000)
	}
	return fmt.Sprintf("%.1fkm", distance)
}

func writePlainTextRoute(w http.ResponseWriter, result *RouteResponse) {
	w.Header().Set("Content-Type", "text/plain")

	fmt.Fprintf(w, "%s\n", formatDuration(result.Duration))
	fmt.Fprintf(w, "%s\n", formatDistance(result.Distance, result.Units))
	fmt.Fprintf(w, "%d\n", len(result.Steps))

	for i, step := range result.Steps {
		fmt.Fprintf(w, "%s\n", step.Icon)

		// The arrival step carries no distance
		if i < len(result.Steps)-1 {
			fmt.Fprintf(w, "%s (%s)\n", step.Description, formatDistance(step.Distance, result.Units))
		} else {
			fmt.Fprintf(w, "%s\n", step.Description)
		}
	}
}

// writePlainTextError writes an empty route followed by the message
func writePlainTextError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "\n\n0\n%s\n", message)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func parseLatLng(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid lat,lng format")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}

	return lat, lng, nil
}

// resolveProfile parses a profile name. An empty name selects the configured
// default; an unrecognized one is an error.
func (s *Service) resolveProfile(name string) (routing.SearchProfile, error) {
	if name == "" {
		return s.cfg.DefaultProfile, nil
	}
	p, err := routing.ParseSearchProfile(name)
	if err != nil {
		profileRejections.Inc()
		s.logger.Warn("rejected search profile", "profile", name)
		return 0, err
	}
	return p, nil
}

func resolveUnits(units string, fallback DistanceUnit) (DistanceUnit, error) {
	if units == "" {
		return fallback, nil
	}
	u := DistanceUnit(strings.ToLower(units))
	if !u.IsValid() {
		return "", fmt.Errorf("invalid units. Must be one of: %s, %s", UnitKilometers, UnitMiles)
	}
	return u, nil
}

func routeErrorStatus(err error) int {
	if errors.Is(err, ErrNoRoute) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// HandleRoute handles GET /nav/route and answers with JSON
func (s *Service) HandleRoute(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	fromDesc := query.Get("fromDesc")
	toDesc := query.Get("toDesc")

	s.logger.Debug("route request", "from", from, "to", to, "profile", query.Get("profile"), "units", query.Get("units"))

	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "both 'from' and 'to' parameters are required")
		return
	}

	profile, err := s.resolveProfile(query.Get("profile"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	units, err := resolveUnits(query.Get("units"), s.cfg.Units)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fromLat, fromLng, err := parseLatLng(from)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid 'from' parameter: %v", err))
		return
	}

	toLat, toLng, err := parseLatLng(to)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid 'to' parameter: %v", err))
		return
	}

	routeRequests.WithLabelValues(profile.String()).Inc()

	result, err := s.Route(r.Context(), RouteRequest{
		FromLat:  fromLat,
		FromLng:  fromLng,
		ToLat:    toLat,
		ToLng:    toLng,
		FromDesc: fromDesc,
		ToDesc:   toDesc,
		Profile:  profile,
		Units:    units,
	})
	if err != nil {
		s.logger.Error("route failed", "profile", profile, "error", err)
		writeError(w, routeErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, result)
}

// HandleRoutePlain handles POST /nav/route. The body holds one value per
// line: profile, units, from, to, and optionally fromDesc and toDesc. An
// empty profile line selects the default profile. The response is plain text.
func (s *Service) HandleRoutePlain(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writePlainTextError(w, "failed to read request body")
		return
	}
	defer r.Body.Close()

	s.logger.Debug("route POST body", "body", string(body))

	lines := strings.Split(strings.TrimRight(string(body), "\r\n"), "\n")
	if len(lines) < 4 {
		writePlainTextError(w, "request must contain at least 4 lines")
		return
	}
	// The profile line is matched exactly, spaces included
	lines[0] = strings.TrimSuffix(lines[0], "\r")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimSpace(lines[i])
	}

	profile, err := s.resolveProfile(lines[0])
	if err != nil {
		writePlainTextError(w, err.Error())
		return
	}

	units, err := resolveUnits(lines[1], s.cfg.Units)
	if err != nil {
		writePlainTextError(w, err.Error())
		return
	}

	fromLat, fromLng, err := parseLatLng(lines[2])
	if err != nil {
		writePlainTextError(w, "invalid 'from' coordinates")
		return
	}

	toLat, toLng, err := parseLatLng(lines[3])
	if err != nil {
		writePlainTextError(w, "invalid 'to' coordinates")
		return
	}

	var fromDesc, toDesc string
	if len(lines) > 4 {
		fromDesc = lines[4]
	}
	if len(lines) > 5 {
		toDesc = lines[5]
	}

	routeRequests.WithLabelValues(profile.String()).Inc()

	result, err := s.Route(r.Context(), RouteRequest{
		FromLat:  fromLat,
		FromLng:  fromLng,
		ToLat:    toLat,
		ToLng:    toLng,
		FromDesc: fromDesc,
		ToDesc:   toDesc,
		Profile:  profile,
		Units:    units,
	})
	if err != nil {
		s.logger.Error("route failed", "profile", profile, "error", err)
		writePlainTextError(w, err.Error())
		return
	}

	writePlainTextRoute(w, result)
}

// HandleProfiles handles GET /nav/profiles
func (s *Service) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	resp := ProfilesResponse{Default: s.cfg.DefaultProfile}
	for _, p := range routing.SearchProfiles() {
		resp.Profiles = append(resp.Profiles, ProfileInfo{Name: p.String(), Mode: p.Mode()})
	}
	writeJSON(w, resp)
}
