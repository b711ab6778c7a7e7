// server/server.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package server exposes the dispatch planner over HTTP. Geometry
// endpoints follow the compatible contract of answering 200 with a null
// body on invalid input; fleet endpoints answer 200 with empty results
// when planning is infeasible or the upstream platform is unavailable.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/medifly/dispatch/dispatch"
	"github.com/medifly/dispatch/geo"
	"github.com/medifly/dispatch/log"
	"github.com/medifly/dispatch/util"
)

// UID is the fixed service identifier returned by /api/v1/uid.
const UID = "medifly-dispatch-1"

type Server struct {
	mux         *http.ServeMux
	planner     *dispatch.Planner
	ilpEndpoint string
	lg          *log.Logger
	startTime   time.Time
}

func New(planner *dispatch.Planner, ilpEndpoint string, lg *log.Logger) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		planner:     planner,
		ilpEndpoint: ilpEndpoint,
		lg:          lg,
		startTime:   time.Now(),
	}

	s.mux.HandleFunc("GET /api/v1/{$}", s.index)
	s.mux.HandleFunc("GET /api/v1/uid", s.uid)

	s.mux.HandleFunc("POST /api/v1/distanceTo", s.distanceTo)
	s.mux.HandleFunc("POST /api/v1/isCloseTo", s.isCloseTo)
	s.mux.HandleFunc("POST /api/v1/nextPosition", s.nextPosition)
	s.mux.HandleFunc("POST /api/v1/isInRegion", s.isInRegion)

	s.mux.HandleFunc("GET /api/v1/dronesWithCooling/{state}", s.dronesWithCooling)
	s.mux.HandleFunc("GET /api/v1/droneDetails/{id}", s.droneDetails)
	s.mux.HandleFunc("GET /api/v1/queryAsPath/{attribute}/{value}", s.queryAsPath)
	s.mux.HandleFunc("POST /api/v1/query", s.query)
	s.mux.HandleFunc("POST /api/v1/queryAvailableDrones", s.queryAvailableDrones)
	s.mux.HandleFunc("POST /api/v1/calcDeliveryPath", s.calcDeliveryPath)
	s.mux.HandleFunc("POST /api/v1/calcDeliveryPathAsGeoJson", s.calcDeliveryPathGeoJSON)

	s.mux.HandleFunc("GET /sup", s.statsHandler)
	s.mux.HandleFunc("/debug/pprof/", pprof.Index)
	s.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	s.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	s.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	s.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// writeJSON writes v as the response body; nil encodes as a JSON null,
// which is the agreed answer for invalid geometry input.
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.lg.Errorf("encoding response: %v", err)
	}
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, "<html><body><h1>Welcome from ILP</h1>"+
		"<h4>ILP-REST-Service-URL:</h4> <a href=%q target=\"_blank\"> %s </a></body></html>",
		s.ilpEndpoint, s.ilpEndpoint)
}

func (s *Server) uid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, UID)
}

///////////////////////////////////////////////////////////////////////////
// Geometry endpoints

// wirePosition keeps nullable coordinates so that absent fields can be
// told apart from zero values.
type wirePosition struct {
	Lng *float64 `json:"lng"`
	Lat *float64 `json:"lat"`
}

// position converts to a geo.Position, reporting whether both coordinates
// were present and in range.
func (wp *wirePosition) position() (geo.Position, bool) {
	if wp == nil || wp.Lng == nil || wp.Lat == nil {
		return geo.Position{}, false
	}
	p := geo.Position{Lng: *wp.Lng, Lat: *wp.Lat}
	return p, p.Valid()
}

type wireRegion struct {
	Name     string         `json:"name"`
	Vertices []wirePosition `json:"vertices"`
}

type pairRequest struct {
	Position1 *wirePosition `json:"position1"`
	Position2 *wirePosition `json:"position2"`
}

func (s *Server) distanceTo(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if err := util.UnmarshalJSON(r.Body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p1, ok1 := req.Position1.position()
	p2, ok2 := req.Position2.position()
	if !ok1 || !ok2 {
		s.writeJSON(w, nil)
		return
	}

	d, _ := geo.Distance(p1, p2)
	s.writeJSON(w, d)
}

func (s *Server) isCloseTo(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if err := util.UnmarshalJSON(r.Body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p1, ok1 := req.Position1.position()
	p2, ok2 := req.Position2.position()
	if !ok1 || !ok2 {
		s.writeJSON(w, nil)
		return
	}

	close, _ := geo.IsClose(p1, p2)
	s.writeJSON(w, close)
}

func (s *Server) nextPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start *wirePosition `json:"start"`
		Angle *float64      `json:"angle"`
	}
	if err := util.UnmarshalJSON(r.Body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, ok := req.Start.position()
	if !ok || req.Angle == nil {
		s.writeJSON(w, nil)
		return
	}

	next, ok := geo.NextPosition(start, *req.Angle)
	if !ok {
		s.writeJSON(w, nil)
		return
	}
	s.writeJSON(w, next)
}

func (s *Server) isInRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position *wirePosition `json:"position"`
		Region   *wireRegion   `json:"region"`
	}
	if err := util.UnmarshalJSON(r.Body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos, ok := req.Position.position()
	if !ok || req.Region == nil || req.Region.Vertices == nil {
		s.writeJSON(w, nil)
		return
	}

	// The region must be a closed ring of at least four valid vertices.
	verts := make([]geo.Position, 0, len(req.Region.Vertices))
	for i := range req.Region.Vertices {
		v, ok := req.Region.Vertices[i].position()
		if !ok {
			s.writeJSON(w, nil)
			return
		}
		verts = append(verts, v)
	}
	region := geo.Region{Name: req.Region.Name, Vertices: verts}
	if !region.Closed() {
		s.writeJSON(w, nil)
		return
	}

	s.writeJSON(w, geo.PointInPolygon(pos, verts))
}

///////////////////////////////////////////////////////////////////////////
// Fleet endpoints

func (s *Server) dronesWithCooling(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.ParseBool(r.PathValue("state"))
	if err != nil {
		http.Error(w, "state must be true or false", http.StatusBadRequest)
		return
	}

	ids := s.planner.DronesWithCooling(r.Context(), state)
	s.writeJSON(w, nonNil(ids))
}

func (s *Server) droneDetails(w http.ResponseWriter, r *http.Request) {
	d := s.planner.DroneByID(r.Context(), r.PathValue("id"))
	if d == nil {
		http.Error(w, "no such drone", http.StatusNotFound)
		return
	}
	s.writeJSON(w, d)
}

func (s *Server) queryAsPath(w http.ResponseWriter, r *http.Request) {
	ids := s.planner.QueryAttribute(r.Context(), r.PathValue("attribute"), r.PathValue("value"))
	s.writeJSON(w, nonNil(ids))
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var queries []dispatch.Query
	if err := util.UnmarshalJSON(r.Body, &queries); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ids := s.planner.Query(r.Context(), queries)
	s.writeJSON(w, nonNil(ids))
}

func (s *Server) queryAvailableDrones(w http.ResponseWriter, r *http.Request) {
	var recs []dispatch.Record
	if err := util.UnmarshalJSON(r.Body, &recs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ids := s.planner.QueryAvailableDrones(r.Context(), recs)
	s.writeJSON(w, nonNil(ids))
}

func (s *Server) calcDeliveryPath(w http.ResponseWriter, r *http.Request) {
	var recs []dispatch.Record
	if err := util.UnmarshalJSON(r.Body, &recs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := s.planner.CalcDeliveryPath(r.Context(), recs)
	s.lg.Info("calcDeliveryPath", "records", len(recs),
		"sorties", len(result.DronePaths), "elapsed", time.Since(start))

	s.writeJSON(w, result)
}

func (s *Server) calcDeliveryPathGeoJSON(w http.ResponseWriter, r *http.Request) {
	var recs []dispatch.Record
	if err := util.UnmarshalJSON(r.Body, &recs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	geojson := s.planner.CalcDeliveryPathGeoJSON(r.Context(), recs)

	w.Header().Set("Content-Type", "application/geo+json")
	fmt.Fprint(w, geojson)
}

// nonNil keeps empty list responses as [] rather than null on the wire.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
