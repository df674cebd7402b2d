package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"disaster_response/internal/risk"
)

func writeDataFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleData = `{"sensor_data": [
	{"location": "Zone A", "temperature": 45, "smoke_level": 25, "timestamp": "2025-01-11T10:30:00Z"},
	{"location": "Zone B", "temperature": 65, "smoke_level": 80, "timestamp": "2025-01-11T10:30:00Z"}
]}`

func TestDetectionService_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "b_sensors.json", sampleData)
	writeDataFile(t, dir, "a_sensors.json", `{"sensor_data": {"temperature": 20, "smoke_level": 5}}`)
	writeDataFile(t, dir, "notes.txt", "not data")
	writeDataFile(t, dir, "bad.data", `{"sensor_data": {"temperature": "hot", "smoke_level": 5}}`)
	writeDataFile(t, dir, "sub/nested.json", sampleData)

	outside := t.TempDir()
	writeDataFile(t, outside, "secret.json", sampleData)

	s := NewDetectionService(DetectionOptions{DataDir: dir})

	tests := []struct {
		name       string
		filePath   string
		pattern    string
		wantSource string
		wantCount  int
		wantErr    error
	}{
		{name: "first match of default pattern", wantSource: "a_sensors.json", wantCount: 1},
		{name: "explicit pattern", pattern: "b_*.json", wantSource: "b_sensors.json", wantCount: 2},
		{name: "explicit file", filePath: "b_sensors.json", wantSource: "b_sensors.json", wantCount: 2},
		{name: "nested file", filePath: "sub/nested.json", wantSource: "nested.json", wantCount: 2},
		{name: "absolute path inside data dir", filePath: filepath.Join(dir, "b_sensors.json"), wantSource: "b_sensors.json", wantCount: 2},
		{name: "pattern without matches", pattern: "*.csv", wantErr: ErrNoDataFound},
		{name: "missing file", filePath: "nope.json", wantErr: ErrFileNotFound},
		{name: "parent traversal", filePath: "../secret.json", wantErr: ErrPathOutsideDataDir},
		{name: "absolute path outside", filePath: filepath.Join(outside, "secret.json"), wantErr: ErrPathOutsideDataDir},
		{name: "pattern escaping dir", pattern: "../*.json", wantErr: ErrPathOutsideDataDir},
		{name: "invalid readings", filePath: "bad.data", wantErr: risk.ErrInvalidFormat},
		{name: "not json", filePath: "notes.txt", wantErr: risk.ErrInvalidFormat},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, source, err := s.Load(tc.filePath, tc.pattern)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if source != tc.wantSource || len(got) != tc.wantCount {
				t.Fatalf("got source %q with %d readings, want %q with %d", source, len(got), tc.wantSource, tc.wantCount)
			}
		})
	}
}

func TestDetectionService_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "z.json", sampleData)
	writeDataFile(t, dir, "a.json", sampleData)
	if err := os.Mkdir(filepath.Join(dir, "dir.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := NewDetectionService(DetectionOptions{DataDir: dir}).Files("")
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a.json" || files[1].Name != "z.json" {
		t.Fatalf("expected sorted regular files, got %+v", files)
	}
	if files[0].ModTime.IsZero() || files[0].Size == 0 {
		t.Fatalf("file metadata missing: %+v", files[0])
	}
}

func TestDetectionService_Defaults(t *testing.T) {
	t.Parallel()

	s := NewDetectionService(DetectionOptions{})
	if s.DataDir() != "." || s.pattern != DefaultPattern {
		t.Fatalf("unexpected defaults: %q %q", s.DataDir(), s.pattern)
	}
}

func TestSensorTime(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := sensorTime("2025-01-11T10:30:00.123+02:00", fallback); !got.Equal(time.Date(2025, 1, 11, 8, 30, 0, 123e6, time.UTC)) {
		t.Fatalf("offset timestamps should be normalised to UTC, got %v", got)
	}
	if got := sensorTime("11/01/2025", fallback); !got.Equal(fallback) {
		t.Fatalf("expected fallback, got %v", got)
	}
}
