package logx

import "testing"

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" WARNING ", LevelWarn},
		{"error", LevelError},
		{"loud", LevelError}, // unknown names keep the previous level
		{"info", LevelInfo},
	}
	for _, tt := range tests {
		SetLevel(tt.in)
		if got := GetLevel(); got != tt.want {
			t.Fatalf("SetLevel(%q): level = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEnabled(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })
	SetLevel("warn")
	if enabled(LevelInfo) {
		t.Fatalf("info should be suppressed at warn")
	}
	if !enabled(LevelError) {
		t.Fatalf("error should be enabled at warn")
	}
}

func TestRenderKeepsLiteralPercent(t *testing.T) {
	if got := render("100% done", nil); got != "100% done" {
		t.Fatalf("render = %q", got)
	}
	if got := render("%d rows", []any{3}); got != "3 rows" {
		t.Fatalf("render = %q", got)
	}
}
