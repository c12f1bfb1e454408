package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graywick/mapforge/internal/metrics"
	"github.com/graywick/mapforge/internal/storage"
	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/world"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return New(zerolog.Nop(), storage.NewMemory(), metrics.Nop{}).Router()
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := doJSON(t, testRouter(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestGenerateAndFetch(t *testing.T) {
	router := testRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/generate",
		`{"seed": 42, "size": "small", "biome": "grassland"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-Catalog-ID"))

	var m world.Map
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, int64(42), m.Seed)
	assert.Equal(t, "grassland", m.Biome)
	assert.Equal(t, 1000.0, m.Width)
	assert.NotEmpty(t, m.Roads)

	rr = doJSON(t, router, http.MethodGet, "/api/maps", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var recs []storage.MapRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, int64(42), recs[0].Seed)
	assert.Equal(t, "small", recs[0].Size)

	rr = doJSON(t, router, http.MethodGet, "/api/maps/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var rec storage.MapRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, int64(42), rec.Seed)
}

func TestListMapsEmpty(t *testing.T) {
	rr := doJSON(t, testRouter(t), http.MethodGet, "/api/maps", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetMapErrors(t *testing.T) {
	router := testRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/maps/99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/maps/classified", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed body", `{"seed": `},
		{"unknown size", `{"seed": 1, "size": "continental"}`},
		{"unknown biome", `{"seed": 1, "size": "small", "biome": "lunar"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/api/generate", c.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestBiomes(t *testing.T) {
	rr := doJSON(t, testRouter(t), http.MethodGet, "/api/biomes", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var configs []biome.Config
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &configs))
	assert.Len(t, configs, len(biome.Builtin().Names()))

	names := make([]string, 0, len(configs))
	for _, c := range configs {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "grassland")
}
