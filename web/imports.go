package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sjlouji/friday/importer"
)

// maxUploadSize bounds import uploads to 16 MiB.
const maxUploadSize = 16 << 20

// readUpload extracts the uploaded file from a multipart request.
func readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, header.Filename, nil
}

// handleImportPreview handles POST /api/import/preview: decode the
// uploaded table and return its columns and first rows for mapping.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(r)
	if err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	preview, err := importer.PreviewTable(data, filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSONResponse(w, preview)
}

// handleImportTransactions handles POST /api/import/transactions: the
// uploaded table plus a mapping form field become a batch of appended
// transactions. Row failures come back in the result, not as an HTTP
// error.
func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, uploadName, err := readUpload(r)
	if err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	var mapping importer.Mapping
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			http.Error(w, "invalid mapping: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	table, err := importer.DecodeTable(data, uploadName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.importer.Import(filename, table, mapping)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, result)
}
