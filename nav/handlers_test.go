package nav

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/maxodo98/osr-gtfs-flex/routing"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(svc *Service) *mux.Router {
	router := mux.NewRouter()
	svc.RegisterRoutes(router)
	return router
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRoute(t *testing.T) {
	fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
	router := newRouter(fake.service(Config{DefaultProfile: routing.ProfileCar}))

	before := testutil.ToFloat64(routeRequests.WithLabelValues("car_parking"))

	rec := serve(t, router, http.MethodGet, "/nav/route?from=47.6,-122.3&to=47.61,-122.29&profile=car_parking&units=MI", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, routing.ProfileCarParking, result.Profile)
	assert.Equal(t, routing.ModeCar, result.Mode)
	assert.Equal(t, UnitMiles, result.Units)
	assert.Contains(t, rec.Body.String(), `"profile":"car_parking"`)
	assert.Contains(t, rec.Body.String(), `"mode":"car"`)

	assert.Equal(t, "auto", fake.last.Costing)
	assert.Equal(t, before+1, testutil.ToFloat64(routeRequests.WithLabelValues("car_parking")))
}

func TestHandleRoute_DefaultProfile(t *testing.T) {
	fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
	router := newRouter(fake.service(Config{DefaultProfile: routing.ProfileWheelchair}))

	rec := serve(t, router, http.MethodGet, "/nav/route?from=1,2&to=3,4", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"profile":"wheelchair"`)
	assert.Equal(t, "pedestrian", fake.last.Costing)
}

func TestHandleRoute_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains string
	}{
		{"missing to", "from=1,2", "both 'from' and 'to' parameters are required"},
		{"bogus profile", "from=1,2&to=3,4&profile=bogus", `unrecognized search profile \"bogus\": must be one of: foot, wheelchair`},
		{"upper case profile", "from=1,2&to=3,4&profile=CAR", `unrecognized search profile \"CAR\"`},
		{"padded profile", "from=1,2&to=3,4&profile=%20car", `unrecognized search profile \" car\"`},
		{"bad units", "from=1,2&to=3,4&units=yd", "invalid units"},
		{"bad from", "from=1&to=3,4", "invalid 'from' parameter"},
		{"bad to", "from=1,2&to=x,4", "invalid 'to' parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
			router := newRouter(fake.service(Config{}))

			rec := serve(t, router, http.MethodGet, "/nav/route?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.Equal(t, 0, fake.calls)
		})
	}
}

func TestHandleRoute_RejectionsCounted(t *testing.T) {
	fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
	router := newRouter(fake.service(Config{}))

	before := testutil.ToFloat64(profileRejections)
	serve(t, router, http.MethodGet, "/nav/route?from=1,2&to=3,4&profile=hoverboard", "")
	assert.Equal(t, before+1, testutil.ToFloat64(profileRejections))
}

func TestHandleRoute_NoRoute(t *testing.T) {
	fake := newFakeValhalla(t, http.StatusBadRequest, `{"error_code":170,"error":"No path could be found"}`)
	router := newRouter(fake.service(Config{}))

	rec := serve(t, router, http.MethodGet, "/nav/route?from=1,2&to=3,4&profile=bike", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrNoRoute.Error())
}

func TestHandleRoutePlain(t *testing.T) {
	fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
	router := newRouter(fake.service(Config{}))

	body := "bike_sharing\r\nkm\r\n47.6,-122.3\r\n47.61,-122.29\r\nHome\r\nWork\r\n"
	rec := serve(t, router, http.MethodPost, "/nav/route", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))

	expected := strings.Join([]string{
		"10min",
		"2.5km",
		"3",
		"Cycle",
		"Drive north on Main St (1.5km)",
		"Right",
		"Turn right on 3rd Ave (1.0km)",
		"",
		"Arrive at destination",
		"",
	}, "\n")
	assert.Equal(t, expected, rec.Body.String())
	assert.Equal(t, "bikeshare", fake.last.Costing)
}

func TestHandleRoutePlain_EmptyProfileLine(t *testing.T) {
	fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
	router := newRouter(fake.service(Config{DefaultProfile: routing.ProfileFlex}))

	rec := serve(t, router, http.MethodPost, "/nav/route", "\nkm\n1,2\n3,4\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "taxi", fake.last.Costing)
}

func TestHandleRoutePlain_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"too short", "car\nkm\n1,2", "request must contain at least 4 lines"},
		{"bogus profile", "bogus\nkm\n1,2\n3,4", `unrecognized search profile "bogus"`},
		{"case variant", "Foot\nkm\n1,2\n3,4", `unrecognized search profile "Foot"`},
		{"leading space", " car\nkm\n1,2\n3,4", `unrecognized search profile " car"`},
		{"trailing space", "car \r\nkm\r\n1,2\r\n3,4\r\n", `unrecognized search profile "car "`},
		{"bad units", "car\nparsecs\n1,2\n3,4", "invalid units"},
		{"bad from", "car\nkm\n1\n3,4", "invalid 'from' coordinates"},
		{"bad to", "car\nkm\n1,2\n3", "invalid 'to' coordinates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeValhalla(t, http.StatusOK, tripReply(t))
			router := newRouter(fake.service(Config{}))

			rec := serve(t, router, http.MethodPost, "/nav/route", tt.body)
			assert.True(t, strings.HasPrefix(rec.Body.String(), "\n\n0\n"))
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.Equal(t, 0, fake.calls)
		})
	}
}

func TestHandleProfiles(t *testing.T) {
	router := newRouter(NewService(Config{DefaultProfile: routing.ProfileFlex}, discardLogger()))

	rec := serve(t, router, http.MethodGet, "/nav/profiles", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, routing.ProfileFlex, resp.Default)
	require.Len(t, resp.Profiles, 8)
	assert.Equal(t, ProfileInfo{Name: "foot", Mode: routing.ModeFoot}, resp.Profiles[0])
	assert.Equal(t, ProfileInfo{Name: "car_parking_wheelchair", Mode: routing.ModeCar}, resp.Profiles[6])
	assert.Equal(t, ProfileInfo{Name: "bike_sharing", Mode: routing.ModeBike}, resp.Profiles[7])
}

func TestRouteMethodNotAllowed(t *testing.T) {
	router := newRouter(NewService(Config{}, discardLogger()))

	rec := serve(t, router, http.MethodDelete, "/nav/route", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.Equal(t, http.StatusNoContent, serve(t, handler, http.MethodGet, "/", "").Code)
	rec := serve(t, handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimit_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, serve(t, RateLimit(0, next), http.MethodGet, "/", "").Code)
	}
}
