package http

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"fintrack/internal/log"
	"fintrack/internal/services"
)

const multipartMemory = 8 << 20

// handleUpload imports every file of the "files" field into the caller's
// working set. Each file succeeds or fails on its own.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			ErrorResponse(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds the %d MB limit", s.opts.MaxUploadBytes>>20)).Write(w)
			return
		}
		BadRequestError("Invalid upload").Write(w)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		BadRequestError("Choose at least one .xlsx or .csv file").Write(w)
		return
	}

	var (
		reports []services.FileReport
		uploads []services.Upload
	)
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			reports = append(reports, services.FileReport{Name: fh.Filename, Err: fmt.Errorf("open upload: %w", err)})
			continue
		}
		defer closeQuietly(f)
		uploads = append(uploads, services.Upload{Name: fh.Filename, Body: f})
	}
	reports = append(reports, s.svc.Ingest(r.Context(), set, uploads)...)

	view := newUploadView(reports)
	html, err := s.render("upload_result.html", view)
	if err != nil {
		s.renderFailed(r.Context(), w, "upload_result.html", err)
		return
	}

	resp := NewHTMXResponse().
		TriggerTransactionsChanged(set.Len()).
		TriggerFormReset().
		BodyHTML(html)
	switch {
	case view.Imported == 0:
		resp.TriggerErrorNotification(view.message())
	case view.Rejected > 0:
		resp.TriggerWarningNotification(view.message())
	default:
		resp.TriggerSuccessNotification(view.message())
	}
	resp.Write(w)
}

func closeQuietly(f multipart.File) { _ = f.Close() }

// handleDownload streams the working set as an .xlsx workbook.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)

	var buf bytes.Buffer
	if err := s.svc.WriteWorkbook(r.Context(), &buf, set); err != nil {
		s.events.LogError(r.Context(), "Workbook download failed", err, log.ComponentHTTP, log.OpDownload, nil)
		InternalServerError("Could not build the workbook").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}
