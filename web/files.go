package web

import (
	"encoding/json"
	"net/http"
)

// CreateFileRequest is the body for POST /api/files.
type CreateFileRequest struct {
	Filepath string `json:"filepath"`
}

// CreateFileResponse reports the created ledger file.
type CreateFileResponse struct {
	Filepath string `json:"filepath"`
	Message  string `json:"message"`
}

// handleCreateFile handles POST /api/files: create a new ledger file
// seeded with the starter account catalog.
func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	filename, err := s.resolveFilepathFromString(req.Filepath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.store.CreateFile(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, CreateFileResponse{
		Filepath: created,
		Message:  "ledger file created",
	})
}
