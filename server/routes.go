package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/theoremus-urban-solutions/transport-catalogue/handler"
	"github.com/theoremus-urban-solutions/transport-catalogue/reader"
)

// maxBodyBytes caps a stat request batch
const maxBodyBytes = 1 << 20

type healthResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Status     string `json:"status"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{SnapshotID: s.snapshotID, Status: "ok"})
}

func (s *Server) handleBus(w http.ResponseWriter, r *http.Request) {
	s.writeAnswer(w, s.handler.Answer(handler.Request{Type: handler.RequestBus, Name: mux.Vars(r)["name"]}))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.writeAnswer(w, s.handler.Answer(handler.Request{Type: handler.RequestStop, Name: mux.Vars(r)["name"]}))
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if vars["from"] == "" || vars["to"] == "" {
		s.handleMissingParams(w, r)
		return
	}
	s.writeAnswer(w, s.handler.Answer(handler.Request{Type: handler.RequestRoute, From: vars["from"], To: vars["to"]}))
}

func (s *Server) handleMissingParams(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "from and to are required"})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	svg, err := s.handler.RenderMap()
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(svg))
}

func (s *Server) handleStatRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := reader.ParseStatRequests(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, s.handler.AnswerAll(reqs))
}

// writeAnswer maps a "not found" answer onto a 404.
func (s *Server) writeAnswer(w http.ResponseWriter, answer any) {
	status := http.StatusOK
	if _, ok := answer.(handler.ErrorResponse); ok {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, answer)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}
