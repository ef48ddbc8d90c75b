package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/woozymasta/geomodels/geo"
	"github.com/woozymasta/geomodels/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	srv := httptest.NewServer(NewServerContext(cfg).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHandleKinds(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/kinds")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var kinds []KindInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&kinds))
	require.Len(t, kinds, 4)
	assert.Equal(t, geo.KindPoint, kinds[0].Name)
	assert.Equal(t, geo.KindMultiPoint, kinds[0].Successor)
	assert.Equal(t, geo.KindMultiPolygon, kinds[3].Successor)
	assert.Equal(t, geo.KindPolygon, kinds[3].Predecessor)
	assert.Equal(t, 3, kinds[3].Depth)

	resp, err = http.Post(srv.URL+"/api/kinds", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleInspect(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.ReferenceID = 4326 })

	resp, body := post(t, srv.URL+"/api/inspect", `{"type":"Polygon","coordinates":[[[1,2],[3,4]],[[5,6]]]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out inspectResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, geo.KindPolygon, out.Kind)
	assert.Equal(t, 2, out.Depth)
	assert.Equal(t, 3, out.Size)
	assert.Equal(t, 2, out.Elements)
	assert.Equal(t, 4326, out.ReferenceID)

	resp, body = post(t, srv.URL+"/api/inspect?ref=999", `{"type":"Point","coordinates":[1,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 999, out.ReferenceID)
	assert.Equal(t, 1, out.Elements)
}

func TestHandleConvert(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := post(t, srv.URL+"/api/convert?promote=MultiPolygon", `{"type":"Point","coordinates":[1,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, contentTypeGeoJSON, resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"type":"MultiPolygon","coordinates":[[[[1,2]]]]}`, string(body))

	resp, body = post(t, srv.URL+"/api/convert?flatten=true&shift_x=1&shift_y=-1&minify=1",
		`{"type":"Polygon","coordinates":[[[1,2],[3,4]]]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, `{"type":"MultiPoint","coordinates":[[2,1],[4,3]]}`, string(body))

	resp, body = post(t, srv.URL+"/api/convert?format=yaml", `{"type":"Point","coordinates":[1,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var g geo.GeoJSONGeometry
	require.NoError(t, yaml.Unmarshal(body, &g))
	assert.Equal(t, "Point", g.Type)
}

func TestHandleConvertErrors(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 64 })

	testCases := []struct {
		name   string
		query  string
		body   string
		status int
	}{
		{"malformed", "", `{"type":"Point"}`, http.StatusBadRequest},
		{"unsupported", "", `{"type":"LineString","coordinates":[[1,2]]}`, http.StatusUnprocessableEntity},
		{"shape", "", `{"type":"Point","coordinates":[[1,2]]}`, http.StatusBadRequest},
		{"empty", "", `{"type":"MultiPoint","coordinates":[]}`, http.StatusBadRequest},
		{"demote", "?promote=Point", `{"type":"Polygon","coordinates":[[[1,2]]]}`, http.StatusBadRequest},
		{"bad ref", "?ref=abc", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"bad shift", "?shift_x=east", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"infinite shift", "?shift_x=Inf", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"bad format", "?format=xml", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"too large", "", `{"type":"MultiPoint","coordinates":[` + strings.Repeat(`[1,2],`, 20) + `[1,2]]}`, http.StatusRequestEntityTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := post(t, srv.URL+"/api/convert"+tc.query, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))

			var out errorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.NotEmpty(t, out.Error)
		})
	}
}

func TestHandleContains(t *testing.T) {
	srv := newTestServer(t, nil)

	polygon := `{"type":"Polygon","coordinates":[[[1,2],[3,4]],[[5,6],[7,8]],[[9,10],[11,12]]]}`

	testCases := []struct {
		name     string
		other    string
		contains bool
		equal    bool
	}{
		{"nested point", `{"type":"Point","coordinates":[9,10]}`, true, false},
		{"absent point", `{"type":"Point","coordinates":[9,100]}`, false, false},
		{"ring", `{"type":"MultiPoint","coordinates":[[5,6],[7,8]]}`, true, false},
		{"itself", polygon, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := post(t, srv.URL+"/api/contains", `{"geometry":`+polygon+`,"other":`+tc.other+`}`)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			var out containsResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tc.contains, out.Contains)
			assert.Equal(t, tc.equal, out.Equal)
		})
	}

	resp, _ := post(t, srv.URL+"/api/contains", `{"geometry":`+polygon+`}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
