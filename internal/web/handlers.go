package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"statusboard/internal/core"
	"statusboard/internal/logging"
)

// handleHealth reports liveness plus the number of active datasets.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"datasets": s.service.Count(),
	})
}

// handleCreateDataset accepts a multipart file upload, runs the loader and
// classifier, and responds with the new dataset's summary. The whole table
// is held in memory for the session; nothing is written to disk.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	info, err := s.service.CreateDataset(header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("dataset created",
		"dataset_id", info.ID,
		"file", info.FileName,
		"rows", info.RowCount,
		"columns", len(info.Columns),
	)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, info)
}

// handleGetDataset returns the dataset summary.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Dataset(chi.URLParam(r, "datasetID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, info)
}

// handleDeleteDataset discards a dataset.
func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteDataset(chi.URLParam(r, "datasetID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"deleted"}`))
}

// handleDomain returns the distinct values of a categorical column.
// The column defaults to the conventional status column.
func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	column := r.URL.Query().Get("column")
	if column == "" {
		column = core.DefaultStatusColumn
	}

	domain, err := s.service.DomainOf(chi.URLParam(r, "datasetID"), column)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"column": column,
		"values": domain,
	})
}

// handleView recomputes the filtered view from the posted FilterSpec.
// On failure only the structured error is returned, never a partial view.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeFilterSpec(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.View(chi.URLParam(r, "datasetID"), spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, result)
}

// handleExport writes the filtered rows as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeFilterSpec(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Compute the view once: the dataset could expire between a validation
	// pass and a second lookup, so the CSV streams from this snapshot.
	result, err := s.service.View(chi.URLParam(r, "datasetID"), spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("filtered_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := result.WriteCSV(w); err != nil {
		// Headers already sent; log and drop the connection state
		logging.FromContext(r.Context()).Error("export failed mid-stream", "error", err)
	}
}

// decodeFilterSpec parses the FilterSpec JSON body.
// An empty body is the "nothing selected" spec, which is valid. Truncated
// JSON (io.ErrUnexpectedEOF) is malformed input, not an empty body, and must
// fail rather than degrade to the zero spec.
func decodeFilterSpec(r *http.Request) (core.FilterSpec, error) {
	var spec core.FilterSpec

	if r.Body == nil {
		return spec, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return spec, nil
		}
		return spec, fmt.Errorf("invalid filter spec: %w", err)
	}

	return spec, nil
}
