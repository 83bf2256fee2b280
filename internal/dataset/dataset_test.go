package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func writeSample(t *testing.T, name string) string {
	t.Helper()
	header, rows := SampleRecords()
	path := filepath.Join(t.TempDir(), name)
	if err := WriteRecords(path, header, rows); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func assertLoaded(t *testing.T, tbl *Table) {
	t.Helper()
	if tbl.Len() != 240 {
		t.Fatalf("rows = %d, want 240", tbl.Len())
	}
	for _, c := range tbl.Columns {
		if IsUnlabeled(c) || c == "Anomalous" {
			t.Fatalf("column %q should have been dropped: %v", c, tbl.Columns)
		}
	}
	want := []string{ColUserID, ColAreaCode, ColDeviceID, ColWaterUsage, ColTime, ColHourly, ColDaily, ColMonthly, ColYearly, ColYear, ColMonth, ColDay}
	if strings.Join(tbl.Columns, ",") != strings.Join(want, ",") {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	for i, r := range tbl.Rows {
		if r.Year != r.Time.Year() || r.Month != int(r.Time.Month()) || r.Day != r.Time.Day() {
			t.Fatalf("row %d derived fields %d-%d-%d disagree with %s", i, r.Year, r.Month, r.Day, r.Time)
		}
		if r.Extra != nil {
			t.Fatalf("row %d unexpected extra columns: %v", i, r.Extra)
		}
	}
	first := tbl.Rows[0]
	if first.UserID != "1" || first.AreaCode != "A1" || first.DeviceID != "D1" {
		t.Fatalf("first row ids = %+v", first)
	}
	if !first.Time.Equal(time.Date(2022, 1, 15, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("first time = %s", first.Time)
	}
	if first.Hourly != 1.5 || first.Daily != 36 || first.Monthly != 1080 {
		t.Fatalf("first magnitudes = %+v", first)
	}
}

func TestLoadCSV(t *testing.T) {
	tbl, err := Load(writeSample(t, "readings.csv"), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertLoaded(t, tbl)
	if tbl.Name != "readings.csv" {
		t.Fatalf("name = %q", tbl.Name)
	}
}

func TestLoadXLSX(t *testing.T) {
	tbl, err := Load(writeSample(t, "readings.xlsx"), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertLoaded(t, tbl)
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	opt := DefaultLoadOptions()
	opt.Sheet = "Nope"
	_, err := Load(writeSample(t, "readings.xlsx"), opt)
	if err == nil || !strings.Contains(err.Error(), "Available sheets") {
		t.Fatalf("expected sheet error, got %v", err)
	}
}

func TestLoadKeepsAnomalousWhenNotDropped(t *testing.T) {
	tbl, err := Load(writeSample(t, "readings.csv"), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Columns[len(tbl.Columns)-4] != "Anomalous" {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if tbl.Rows[0].Cell("Anomalous") != "0" {
		t.Fatalf("extra cell = %q", tbl.Rows[0].Cell("Anomalous"))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return p
	}
	header := "User_ID,Area_Code,Device_ID,Water_Usage,Time,Hourly_Water_Consumption,Daily_Water_Consumption,Monthly_Water_Consumption,Yearly_Water_Consumption\n"

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), os.ErrNotExist},
		{"bad time", write("bad_time.csv", header+"1,A1,D1,Yes,yesterday,1,2,3,4\n"), ErrUnparsableTime},
		{"missing column", write("no_time.csv", "User_ID,Area_Code\n1,A1\n"), ErrMissingColumn},
		{"bad number", write("bad_num.csv", header+"1,A1,D1,Yes,2022-01-01,x,2,3,4\n"), ErrInvalidNumber},
		{"unsupported", write("readings.json", "{}"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, DefaultLoadOptions())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildSkipsBlankRowsAndNormalizesIDs(t *testing.T) {
	header := []string{"", ColUserID, ColAreaCode, ColDeviceID, ColWaterUsage, ColTime, ColHourly, ColDaily, ColMonthly, ColYearly}
	rows := [][]string{
		{"0", "12.0", "A1", "7", "Yes", "2023-03-04 05:06:07", "1", "", "3", "4"},
		{"", "", "", "", "", "", "", "", "", ""},
	}
	tbl, err := Build(header, rows, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	r := tbl.Rows[0]
	if r.UserID != "12" || r.DeviceID != "7" || r.Daily != 0 {
		t.Fatalf("row = %+v", r)
	}
	if r.Year != 2023 || r.Month != 3 || r.Day != 4 {
		t.Fatalf("derived = %d-%d-%d", r.Year, r.Month, r.Day)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2022-05-06T07:08:09Z", time.Date(2022, 5, 6, 7, 8, 9, 0, time.UTC)},
		{"2022-05-06 07:08", time.Date(2022, 5, 6, 7, 8, 0, 0, time.UTC)},
		{"5/6/2022 07:08", time.Date(2022, 5, 6, 7, 8, 0, 0, time.UTC)},
		{"44927", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"44927.5", time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		if !ok || !got.Equal(tt.want) {
			t.Fatalf("ParseTime(%q) = %s, %v; want %s", tt.in, got, ok, tt.want)
		}
	}
	for _, bad := range []string{"", "soon", "-3"} {
		if _, ok := ParseTime(bad); ok {
			t.Fatalf("ParseTime(%q) should fail", bad)
		}
	}
}

func TestDistinctKeepsFirstAppearanceOrder(t *testing.T) {
	tbl := Sample()
	got := tbl.Distinct(func(r Reading) string { return r.AreaCode })
	if strings.Join(got, ",") != "A1,A2" {
		t.Fatalf("distinct = %v", got)
	}
}

func TestCacheLoadsOnce(t *testing.T) {
	var calls int32
	c := NewCache("readings.csv", DefaultLoadOptions())
	c.load = func(string, LoadOptions) (*Table, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return Sample(), nil
	}
	ctx := context.Background()
	var wg sync.WaitGroup
	tables := make([]*Table, 8)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tb, err := c.Get(ctx)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			tables[i] = tb
		}(i)
	}
	wg.Wait()
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("loads = %d, want 1", got)
	}
	for i := 1; i < len(tables); i++ {
		if tables[i] != tables[0] {
			t.Fatalf("caller %d got a different table", i)
		}
	}
	if !c.Loaded() || c.LoadedAt().IsZero() {
		t.Fatalf("cache should report loaded")
	}

	if _, err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("loads after reload = %d, want 2", got)
	}
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	fail := true
	c := NewCache("readings.csv", DefaultLoadOptions())
	c.load = func(string, LoadOptions) (*Table, error) {
		if fail {
			return nil, ErrUnparsableTime
		}
		return Sample(), nil
	}
	if _, err := c.Get(context.Background()); !errors.Is(err, ErrUnparsableTime) {
		t.Fatalf("err = %v", err)
	}
	if c.Loaded() {
		t.Fatalf("failed load must not be cached")
	}
	fail = false
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("second Get: %v", err)
	}
}

func TestCacheReloadWinsOverStaleLoad(t *testing.T) {
	stale := Sample()
	fresh := Sample()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	c := NewCache("readings.csv", DefaultLoadOptions())
	c.load = func(string, LoadOptions) (*Table, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return stale, nil
		}
		return fresh, nil
	}

	done := make(chan *Table)
	go func() {
		tb, err := c.Get(context.Background())
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		done <- tb
	}()
	<-started

	got, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got != fresh {
		t.Fatalf("Reload returned the stale table")
	}
	close(release)
	if tb := <-done; tb != stale {
		t.Fatalf("in-flight Get should still receive its own load")
	}

	cached, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cached != fresh {
		t.Fatalf("stale load replaced the reloaded table")
	}
}
