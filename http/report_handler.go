package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"taxbot/report"
	"taxbot/service"
)

type ReportHandler struct {
	service  *service.TaxService
	renderer *report.Renderer
	now      func() time.Time
}

func NewReportHandler(service *service.TaxService, renderer *report.Renderer) *ReportHandler {
	return &ReportHandler{service: service, renderer: renderer, now: time.Now}
}

// Download answers POST /tax/report with the PDF as an attachment.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.service.Compare(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	now := h.now()
	meta := report.NewMeta(now)
	pdf, err := h.renderer.Render(report.Build(result, meta))
	if err != nil {
		log.WithField("report_id", meta.ID).Errorf("rendering report: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(now)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("X-Report-ID", meta.ID)
	if _, err := w.Write(pdf); err != nil {
		log.WithField("report_id", meta.ID).Warnf("writing report: %v", err)
	}
}
