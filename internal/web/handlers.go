package web

import (
	"fmt"
	"net/http"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/logging"
)

// xlsxContentType is the MIME type of generated workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// outputFileName is the download name of every generated workbook.
const outputFileName = "Output.xlsx"

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleStatus reports the transformation limiter state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.LimiterStatus())
}

// handleTransform processes one uploaded pricing workbook and responds
// with the normalized Output.xlsx as a download. The file is streamed
// straight into the transformation; nothing is written to disk.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := s.service.TransformWorkbook(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("sending output workbook",
		"job_id", result.JobID,
		"rows", result.Summary.OutputRows,
	)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+outputFileName+`"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(result.Output)))
	w.Write(result.Output)
}
