// Package server exposes the geometry operations over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geomodels/geo"
	"github.com/woozymasta/geomodels/internal/config"
	"github.com/woozymasta/geomodels/internal/processor"
)

const contentTypeGeoJSON = "application/geo+json"

type inspectResponse struct {
	Kind        geo.Kind `json:"kind"`
	Depth       int      `json:"depth"`
	Size        int      `json:"size"`
	Elements    int      `json:"elements"`
	ReferenceID int      `json:"reference_id"`
}

type containsRequest struct {
	Geometry *geo.GeoJSONGeometry `json:"geometry"`
	Other    *geo.GeoJSONGeometry `json:"other"`
}

type containsResponse struct {
	Contains bool `json:"contains"`
	Equal    bool `json:"equal"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleKinds serves the registry of geometry kinds.
func (s *ServerContext) HandleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Kinds)
}

// HandleInspect decodes a geometry and reports its kind and size.
func (s *ServerContext) HandleInspect(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	m, err := geo.UnmarshalGeometry(body, ref)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := inspectResponse{
		Kind:        m.Kind(),
		Depth:       m.Kind().Depth(),
		Size:        m.Size(),
		Elements:    1,
		ReferenceID: m.ReferenceID(),
	}
	if multi, ok := m.(*geo.Multi); ok {
		resp.Elements = multi.Len()
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleConvert runs the processor pipeline on any GeoJSON document.
// Query parameters: promote, flatten, shift_x, shift_y, format, minify, ref.
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := s.convertRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := processor.Process(body, req)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Debug().
		Str("type", res.Type).
		Int("features", res.Features).
		Int("size", res.Size).
		Msg("Document converted")

	contentType := contentTypeGeoJSON
	if req.Format == config.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// HandleContains reports whether one geometry structurally contains another.
func (s *ServerContext) HandleContains(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req containsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, fmt.Errorf("decode request: %v: %w", err, geo.ErrMalformedGeoJSON))
		return
	}
	if req.Geometry == nil || req.Other == nil {
		writeError(w, fmt.Errorf("geometry and other are required: %w", geo.ErrMalformedGeoJSON))
		return
	}

	outer, err := geo.FromJSON(*req.Geometry, ref)
	if err != nil {
		writeError(w, err)
		return
	}
	inner, err := geo.FromJSON(*req.Other, ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, containsResponse{
		Contains: outer.Contains(inner),
		Equal:    outer.Equal(inner),
	})
}

func (s *ServerContext) convertRequest(r *http.Request) (processor.Request, error) {
	ref, err := s.referenceID(r)
	if err != nil {
		return processor.Request{}, err
	}

	q := r.URL.Query()
	req := processor.Request{
		ReferenceID: ref,
		Format:      s.Config.Format,
		Minify:      s.Config.Minify,
		Options: processor.Options{
			Promote: q.Get("promote"),
		},
	}

	if v := q.Get("format"); v != "" {
		req.Format = v
	}
	if req.Format != config.FormatJSON && req.Format != config.FormatYAML {
		return req, badRequest("unknown format %q", req.Format)
	}

	for name, dst := range map[string]*bool{"flatten": &req.Options.Flatten, "minify": &req.Minify} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return req, badRequest("%s: %v", name, err)
			}
			*dst = b
		}
	}

	for name, dst := range map[string]*float64{"shift_x": &req.Options.ShiftX, "shift_y": &req.Options.ShiftY} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return req, badRequest("%s: %v", name, err)
			}
			*dst = f
		}
	}

	return req, nil
}

// referenceID returns the ?ref override or the configured default.
func (s *ServerContext) referenceID(r *http.Request) (int, error) {
	v := r.URL.Query().Get("ref")
	if v == "" {
		return s.Config.ReferenceID, nil
	}
	ref, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("ref: %v", err)
	}
	return ref, nil
}

func (s *ServerContext) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.Config.Server.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &httpError{status: http.StatusRequestEntityTooLarge, msg: err.Error()}
		}
		return nil, badRequest("read body: %v", err)
	}
	return body, nil
}

type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// statusFor maps library errors onto HTTP status codes.
func statusFor(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.status
	case errors.Is(err, geo.ErrUnsupportedGeometryType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geo.ErrMalformedGeoJSON),
		errors.Is(err, geo.ErrShapeMismatch),
		errors.Is(err, geo.ErrEmptyComposite),
		errors.Is(err, geo.ErrInvalidPromotion):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
