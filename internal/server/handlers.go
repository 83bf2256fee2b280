package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/dataset"
	"github.com/KaramelBytes/waterdash/internal/filter"
	"github.com/KaramelBytes/waterdash/internal/logx"
)

// filtered loads the cached table and applies the query's selections. It
// writes the error response itself and returns ok=false on failure.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request) (all, view *dataset.Table, sel filter.Selections, ok bool) {
	t, err := s.src.Get(r.Context())
	if err != nil {
		respondError(w, NewAPIError(ErrorCodeDataUnavailable, "load readings", err.Error(), http.StatusInternalServerError))
		return nil, nil, nil, false
	}
	sel = filter.FromQuery(r.URL.Query())
	return t, filter.Apply(t, sel), sel, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	format, err := charts.ParseFormat(vars["format"])
	if err != nil {
		respondError(w, NewAPIError(ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}
	if _, err := charts.Title(vars["name"]); err != nil {
		respondError(w, NewAPIError(ErrorCodeNotFound, err.Error(), nil, http.StatusNotFound))
		return
	}
	_, view, _, ok := s.filtered(w, r)
	if !ok {
		return
	}
	b, err := charts.Render(vars["name"], view, s.opt.Charts, format)
	if err != nil {
		respondError(w, NewAPIError(ErrorCodeInternalServerError, "render chart", err.Error(), http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	if _, err := w.Write(b); err != nil {
		logx.Debugf("write chart %s: %v", vars["name"], err)
	}
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	_, view, _, ok := s.filtered(w, r)
	if !ok {
		return
	}
	data, err := charts.Data(name, view, s.opt.Charts)
	if errors.Is(err, charts.ErrUnknownChart) {
		respondError(w, NewAPIError(ErrorCodeNotFound, err.Error(), charts.Names(), http.StatusNotFound))
		return
	}
	if err != nil {
		respondError(w, NewAPIError(ErrorCodeInternalServerError, "chart data", err.Error(), http.StatusInternalServerError))
		return
	}
	respondJSON(w, http.StatusOK, data)
}

type readingsResponse struct {
	Caption  string            `json:"caption"`
	Total    int               `json:"total"`
	Filters  []string          `json:"filters,omitempty"`
	Readings []dataset.Reading `json:"readings"`
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, NewAPIError(ErrorCodeBadRequest, "limit must be a non-negative integer", v, http.StatusBadRequest))
			return
		}
		limit = n
	}
	_, view, sel, ok := s.filtered(w, r)
	if !ok {
		return
	}
	rows := view.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []dataset.Reading{}
	}
	respondJSON(w, http.StatusOK, readingsResponse{
		Caption:  charts.RowsCaption(view.Len()),
		Total:    view.Len(),
		Filters:  sel.Describe(),
		Readings: rows,
	})
}

type optionResponse struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	t, err := s.src.Get(r.Context())
	if err != nil {
		respondError(w, NewAPIError(ErrorCodeDataUnavailable, "load readings", err.Error(), http.StatusInternalServerError))
		return
	}
	opts := filter.Options(t)
	out := make([]optionResponse, 0, len(opts))
	for _, f := range filter.Fields() {
		out = append(out, optionResponse{Key: f.Key(), Label: f.Label(), Options: opts[f]})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, view, sel, ok := s.filtered(w, r)
	if !ok {
		return
	}
	rep := analysis.Describe(view, analysis.DefaultOptions(), sel.Describe())
	if r.URL.Query().Get("format") == "json" {
		respondJSON(w, http.StatusOK, rep)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, rep.Markdown())
}

type reloadResponse struct {
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	t, err := s.src.Reload(r.Context())
	if err != nil {
		respondError(w, NewAPIError(ErrorCodeDataUnavailable, "reload readings", err.Error(), http.StatusInternalServerError))
		return
	}
	logx.Infof("Reloaded %d readings", t.Len())
	respondJSON(w, http.StatusOK, reloadResponse{Rows: t.Len(), LoadedAt: time.Now().UTC()})
}
