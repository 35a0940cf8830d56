package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.dash.Options())
}

// handleDashboard serves GET /api/dashboard?days=&region=.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	view, err := s.dash.Render(r.Context(), sel, dashboard.TransportHTTP)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// handleExport serves the filtered subset as a workbook download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	events, summary, err := s.dash.Subset(r.Context(), sel, dashboard.TransportExport)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, sel, s.dash.Reference(), events, summary); err != nil {
		s.renderError(w, r, fmt.Errorf("export: %w", err))
		return
	}

	w.Header().Set("Content-Type", s.exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(sel, s.exporter.Extension())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.WarnContext(r.Context(), "export write failed", "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	render.Render(w, r, apiErr) //nolint:errcheck // best-effort error response
}

func selectionFromQuery(r *http.Request) (domain.Selection, error) {
	q := r.URL.Query()
	return domain.ParseSelection(q.Get("days"), q.Get("region"))
}

// exportFilename builds e.g. "earthquakes_30d_north-america.xlsx".
func exportFilename(sel domain.Selection, ext string) string {
	region := strings.ToLower(strings.ReplaceAll(sel.Region, " ", "-"))
	return fmt.Sprintf("earthquakes_%dd_%s%s", sel.Days, region, ext)
}
