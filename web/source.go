package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// SourceResponse carries the raw file content for the editor surface.
type SourceResponse struct {
	Filepath string   `json:"filepath"`
	Source   string   `json:"source"`
	Errors   []string `json:"errors"`
}

// resolveFilepath extracts the filepath query parameter, falling back
// to the store's default ledger. The result is absolute and validated
// to stay within the default ledger's directory.
func (s *Server) resolveFilepath(r *http.Request) (string, error) {
	return s.resolveFilepathFromString(r.URL.Query().Get("filepath"))
}

func (s *Server) resolveFilepathFromString(path string) (string, error) {
	if path == "" {
		return s.store.ResolvePath("")
	}

	absPath, err := s.store.ResolvePath(path)
	if err != nil {
		return "", fmt.Errorf("invalid filepath: %w", err)
	}

	if err := s.validateFilepath(absPath); err != nil {
		return "", err
	}

	return absPath, nil
}

// isPathWithin checks if the resolved path is within the allowed
// directory. Both paths must already be canonical.
func isPathWithin(allowedDir, resolvedPath string) bool {
	rel, err := filepath.Rel(allowedDir, resolvedPath)
	return err == nil && !strings.HasPrefix(rel, "..")
}

// validateFilepath ensures the path is within the default ledger's
// directory, resolving symlinks so neither ../ traversal nor a symlink
// can escape it. Without a configured default, any path is allowed.
func (s *Server) validateFilepath(path string) error {
	defaultPath, err := s.store.ResolvePath("")
	if err != nil {
		return nil
	}

	allowedDir := filepath.Dir(defaultPath)

	absAllowedDir, err := filepath.EvalSymlinks(allowedDir)
	if err != nil {
		return fmt.Errorf("invalid allowed directory: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		parentDir := filepath.Dir(path)
		resolvedParent, err := filepath.EvalSymlinks(parentDir)
		if err != nil {
			return fmt.Errorf("access denied: invalid path")
		}
		resolvedPath = filepath.Join(resolvedParent, filepath.Base(path))
	}

	if !isPathWithin(absAllowedDir, resolvedPath) {
		return fmt.Errorf("access denied: filepath outside allowed directory")
	}

	return nil
}

// handleGetSource handles GET /api/source: the file content plus the
// errors a load of it reports.
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename, source, err := s.store.Source(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := &SourceResponse{Filepath: filename, Source: string(source), Errors: []string{}}
	if book, err := s.store.Load(filename); err == nil && book.Errors != nil {
		response.Errors = book.Errors
	}

	writeJSONResponse(w, response)
}

// handlePutSource handles PUT /api/source: replace the file content
// wholesale and report what the reload finds.
func (s *Server) handlePutSource(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Filepath string `json:"filepath"`
		Source   string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	filename, err := s.resolveFilepathFromString(request.Filepath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.WriteSource(filename, request.Source); err != nil {
		s.writeError(w, err)
		return
	}

	response := &SourceResponse{Filepath: filename, Source: request.Source, Errors: []string{}}
	if book, err := s.store.Load(filename); err == nil && book.Errors != nil {
		response.Errors = book.Errors
	}

	writeJSONResponse(w, response)
}
