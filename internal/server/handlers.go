package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"creatorpay/internal/compensation"
	"creatorpay/internal/export"
	"creatorpay/internal/logging"
	"creatorpay/internal/pipeline"
	"creatorpay/internal/video"
)

const allModels = "all"

// ReportResponse is the payload of a successful report request.
type ReportResponse struct {
	RunID         string                `json:"run_id"`
	Rows          int                   `json:"rows"`
	Matched       int                   `json:"matched"`
	UnmatchedRows int                   `json:"unmatched_rows"`
	Reports       []compensation.Report `json:"reports"`
	Creators      []pipeline.Stats      `json:"creators"`
	Unmatched     []pipeline.Unmatched  `json:"unmatched"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	models := s.catalog.Models()
	defs := make([]compensation.Definition, 0, len(models))
	for _, m := range models {
		defs = append(defs, m.Definition())
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"default": s.opts.DefaultModel,
		"models":  defs,
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	models, err := s.selectModels(r.URL.Query()["model"])
	if err != nil {
		s.reject(w, r, http.StatusBadRequest, "UNKNOWN_MODEL", err.Error())
		return
	}

	body, closeBody, err := s.uploadBody(w, r)
	if err != nil {
		status, code := uploadErrorStatus(err)
		s.reject(w, r, status, code, err.Error())
		return
	}
	defer closeBody()

	rows, err := video.ReadCSV(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.reject(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.reject(w, r, http.StatusBadRequest, "INVALID_CSV", err.Error())
		return
	}
	if len(rows) == 0 {
		s.reject(w, r, http.StatusBadRequest, "INVALID_CSV", "csv has no data rows")
		return
	}

	runID := export.NewRunID()
	ctx := logging.WithRunID(r.Context(), runID)
	res := s.pipeline.Run(ctx, rows)
	if err := res.Err(); err != nil {
		s.reject(w, r, http.StatusUnprocessableEntity, "NO_CREATORS", err.Error())
		return
	}

	resp := ReportResponse{
		RunID:         runID,
		Rows:          res.Rows,
		Matched:       res.Matched,
		UnmatchedRows: res.UnmatchedRows(),
		Creators:      res.Stats,
		Unmatched:     res.Unmatched,
	}
	if resp.Unmatched == nil {
		resp.Unmatched = []pipeline.Unmatched{}
	}
	for _, m := range models {
		report := res.Report(m)
		report.RunID = runID
		resp.Reports = append(resp.Reports, report)
	}
	logging.WithContext(ctx, s.logger).Info("report served",
		logging.Int("rows", res.Rows),
		logging.Int("creators", len(res.Creators)),
		logging.Int("models", len(models)),
	)
	writeSuccess(w, http.StatusOK, resp)
}

// reject logs a refused report request and writes the error envelope.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	logging.WithContext(r.Context(), s.logger).Info("report request rejected",
		logging.String(logging.FieldErrorCode, code),
		logging.Int("status", status),
		logging.String("reason", message),
	)
	writeError(w, status, code, message)
}

func (s *Server) selectModels(names []string) ([]compensation.Model, error) {
	var requested []string
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				requested = append(requested, name)
			}
		}
	}
	if len(requested) == 0 {
		requested = []string{s.opts.DefaultModel}
	}
	var models []compensation.Model
	seen := make(map[string]bool)
	for _, name := range requested {
		if strings.EqualFold(name, allModels) {
			return s.catalog.Models(), nil
		}
		m, err := s.catalog.Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[m.Name()] {
			continue
		}
		seen[m.Name()] = true
		models = append(models, m)
	}
	return models, nil
}

var errMissingFile = errors.New(`multipart upload requires a "file" field`)

// uploadBody returns the CSV stream from a multipart "file" field or the raw
// request body, capped at the configured upload size.
func (s *Server) uploadBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, errMissingFile
		}
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	return file, func() {
		_ = file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}, nil
}

func uploadErrorStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, "MISSING_FILE"
	default:
		return http.StatusBadRequest, "INVALID_UPLOAD"
	}
}
