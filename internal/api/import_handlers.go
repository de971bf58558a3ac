package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/worker"
)

const defaultMaxImportBytes = 5 << 20

// handleImport accepts a deck either as the raw request body or as a
// multipart "file" field. With async=true the import runs on the worker pool
// and the handler answers 202.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	setID := urlID(r)
	userID := userFromContext(r.Context())

	limit := s.MaxImportBytes
	if limit <= 0 {
		limit = defaultMaxImportBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	data, filename, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			handleError(w, r, errors.NewValidationError("file", "exceeds the upload limit"))
			return
		}
		handleError(w, r, errors.NewBadRequestError("could not read upload: "+err.Error()))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(filename), ".")
	}
	if format == "" {
		handleError(w, r, errors.NewValidationError("format", "is required"))
		return
	}

	req := models.ImportRequest{UserID: userID, SetID: setID, Format: format, Data: data}
	log = log.WithFields(map[string]any{"set_id": setID, "format": format, "bytes": len(data)})

	if !queryBool(r, "async") {
		res, err := s.ImportService.ImportDeck(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, res)
		return
	}

	// Check ownership now so the client hears about it before the job runs.
	if _, err := s.SetService.Authorize(r.Context(), userID, setID); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.JobQueue.EnqueueImport(req); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolClosed) {
			handleError(w, r, errors.NewUnavailableError("import queue is busy, retry later", err))
			return
		}
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("deck import queued")
	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "queued", "set_id": setID})
}

func readUpload(r *http.Request) ([]byte, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		return data, header.Filename, err
	}
	data, err := io.ReadAll(r.Body)
	return data, "", err
}
