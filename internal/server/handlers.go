package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/graywick/mapforge/internal/storage"
	"github.com/graywick/mapforge/pkg/world"
	"github.com/graywick/mapforge/pkg/worldgen"
)

// generateRequest is the POST /api/generate body. A nil seed asks the
// server to pick one from the clock.
type generateRequest struct {
	Seed  *int64 `json:"seed"`
	Size  string `json:"size"`
	Biome string `json:"biome"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Size == "" {
		req.Size = string(world.SizeMedium)
	}
	size, err := world.ParseSizeClass(req.Size)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	start := time.Now()
	m, report, err := worldgen.Generate(worldgen.Params{
		Seed:   seed,
		Size:   size,
		Biome:  req.Biome,
		Logger: s.log,
	})
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	elapsed := time.Since(start)

	rec := storage.NewRecord(m, elapsed)
	if err := s.store.SaveMap(rec); err != nil {
		s.log.Warn().Err(err).Msg("saving catalog record")
	} else {
		w.Header().Set("X-Catalog-ID", strconv.FormatUint(uint64(rec.ID), 10))
	}
	s.metrics.RecordGeneration(m, elapsed)

	s.log.Info().
		Int64("seed", seed).
		Str("size", string(size)).
		Str("biome", m.Biome).
		Dur("elapsed", elapsed).
		Str("report", report.Summary).
		Msg("map generated")

	s.respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleListMaps(w http.ResponseWriter, _ *http.Request) {
	recs, err := s.store.ListMaps()
	if err != nil {
		s.log.Error().Err(err).Msg("listing catalog records")
		s.respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	if recs == nil {
		recs = []storage.MapRecord{}
	}
	s.respondJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid map id")
		return
	}

	rec, err := s.store.GetMap(uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "no such map")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Uint64("id", id).Msg("loading catalog record")
		s.respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleBiomes(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.biomes.All())
}
