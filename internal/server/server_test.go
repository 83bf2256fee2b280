package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/dataset"
)

type fakeSource struct {
	table   *dataset.Table
	err     error
	reloads int
}

func (f *fakeSource) Get(context.Context) (*dataset.Table, error) { return f.table, f.err }

func (f *fakeSource) Reload(context.Context) (*dataset.Table, error) {
	f.reloads++
	return f.table, f.err
}

func newTestServer(src TableSource) http.Handler {
	opt := charts.DefaultOptions()
	opt.Width, opt.Height = 400, 300
	opt.TableRows = 10
	return New(src, Options{Charts: opt}).Handler()
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID")
	}
}

func TestIndexHonoursFilters(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/?year=2022&area_code=A1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Showing 60 rows of filtered data.",
		"Select All User ID",
		`<option value="A1" selected>`,
		"/charts/trend.png?area_code=A1&amp;year=2022",
		"Heatmap for Correlation Analysis",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestSelectAllIgnoresValues(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/api/readings?user_id=1&all=user_id&limit=1")
	var resp readingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 240 || len(resp.Readings) != 1 {
		t.Fatalf("total=%d readings=%d", resp.Total, len(resp.Readings))
	}
}

func TestReadingsFilterAndLimit(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/api/readings?user_id=1&user_id=2&month=3")
	var resp readingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 4 {
		t.Fatalf("total = %d", resp.Total)
	}
	for _, r := range resp.Readings {
		if (r.UserID != "1" && r.UserID != "2") || r.Month != 3 {
			t.Fatalf("unexpected reading %+v", r)
		}
	}
	if rec := do(t, h, http.MethodGet, "/api/readings?limit=-1"); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit = %d", rec.Code)
	}
}

func TestChartImages(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/charts/box.png?water_usage=No")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("box = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("not a png")
	}
	rec = do(t, h, http.MethodGet, "/charts/stacked.svg?year=1999")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<svg") {
		t.Fatalf("empty svg = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/charts/pie.png"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown chart = %d", rec.Code)
	}
}

func TestChartImagesForOneMonth(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	for _, name := range charts.Names() {
		for _, format := range []string{"png", "svg"} {
			rec := do(t, h, http.MethodGet, "/charts/"+name+"."+format+"?year=2022&month=3")
			if rec.Code != http.StatusOK {
				t.Fatalf("%s.%s for one month = %d %s", name, format, rec.Code, rec.Body.String())
			}
		}
	}
	rec := do(t, h, http.MethodGet, "/charts/scatter.png?user_id=4&year=2023&month=7")
	if rec.Code != http.StatusOK {
		t.Fatalf("scatter for one row = %d %s", rec.Code, rec.Body.String())
	}
}

func TestChartData(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/api/charts/trend?year=2023")
	var d charts.TrendData
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Points) != 12 || d.Points[0].Year != 2023 {
		t.Fatalf("trend = %+v", d)
	}
	rec = do(t, h, http.MethodGet, "/api/charts/nope")
	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil || rec.Code != http.StatusNotFound || apiErr.Code != ErrorCodeNotFound {
		t.Fatalf("unknown chart = %d %+v %v", rec.Code, apiErr, err)
	}
}

func TestOptionsAndSummary(t *testing.T) {
	h := newTestServer(&fakeSource{table: dataset.Sample()})
	rec := do(t, h, http.MethodGet, "/api/options")
	var opts []optionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts) != 7 || opts[0].Key != "user_id" || len(opts[0].Options) != 10 {
		t.Fatalf("options = %+v", opts)
	}
	rec = do(t, h, http.MethodGet, "/api/summary?user_id=3")
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown") {
		t.Fatalf("content type = %s", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Showing 24 rows") || !strings.Contains(rec.Body.String(), "User ID: 3") {
		t.Fatalf("summary = %s", rec.Body.String())
	}
}

func TestReloadAndLoadErrors(t *testing.T) {
	src := &fakeSource{table: dataset.Sample()}
	h := newTestServer(src)
	if rec := do(t, h, http.MethodPost, "/api/reload"); rec.Code != http.StatusOK || src.reloads != 1 {
		t.Fatalf("reload = %d (%d reloads)", rec.Code, src.reloads)
	}
	if rec := do(t, h, http.MethodGet, "/api/reload"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET reload = %d", rec.Code)
	}

	broken := newTestServer(&fakeSource{err: errors.New("open data.xlsx: no such file")})
	rec := do(t, broken, http.MethodGet, "/")
	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusInternalServerError || apiErr.Code != ErrorCodeDataUnavailable {
		t.Fatalf("broken = %d %+v", rec.Code, apiErr)
	}
}
