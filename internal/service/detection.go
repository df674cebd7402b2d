package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	dr "disaster_response"
	"disaster_response/internal/risk"
)

const DefaultPattern = "*.json"

var (
	ErrNoDataFound        = errors.New("no sensor data files found")
	ErrFileNotFound       = errors.New("sensor data file not found")
	ErrPathOutsideDataDir = errors.New("path is outside the data directory")
)

type DetectionOptions struct {
	DataDir string
	Pattern string
}

// DataFile is a candidate input file in the data directory.
type DataFile struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// DetectionService reads {"sensor_data": ...} documents from one directory.
type DetectionService struct {
	dataDir string
	pattern string
}

func NewDetectionService(opts DetectionOptions) *DetectionService {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.DataDir == "" {
		opts.DataDir = "."
	}
	return &DetectionService{dataDir: filepath.Clean(opts.DataDir), pattern: opts.Pattern}
}

func (s *DetectionService) DataDir() string { return s.dataDir }

// Load reads filePath when given, otherwise the first file matching pattern.
// It returns the readings and the file name used as the source.
func (s *DetectionService) Load(filePath, pattern string) ([]dr.SensorReading, string, error) {
	name := filePath
	if name == "" {
		files, err := s.Files(pattern)
		if err != nil {
			return nil, "", err
		}
		if len(files) == 0 {
			return nil, "", ErrNoDataFound
		}
		name = files[0].Name
	}

	full, err := s.resolve(name)
	if err != nil {
		return nil, "", err
	}
	body, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}

	readings, err := risk.ParseRequest(body)
	if err != nil {
		return nil, "", err
	}
	return readings, filepath.Base(full), nil
}

// Files lists regular files matching pattern (DefaultPattern when empty), sorted by name.
func (s *DetectionService) Files(pattern string) ([]DataFile, error) {
	if pattern == "" {
		pattern = s.pattern
	}
	if !filepath.IsLocal(pattern) {
		return nil, fmt.Errorf("%w: %s", ErrPathOutsideDataDir, pattern)
	}
	matches, err := filepath.Glob(filepath.Join(s.dataDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	out := make([]DataFile, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(s.dataDir, m)
		if err != nil {
			continue
		}
		out = append(out, DataFile{Name: rel, ModTime: info.ModTime(), Size: info.Size()})
	}
	return out, nil
}

// resolve maps a request path onto the data directory and refuses anything that escapes it.
func (s *DetectionService) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		rel, err := filepath.Rel(s.dataDir, filepath.Clean(name))
		if err != nil || !filepath.IsLocal(rel) {
			return "", fmt.Errorf("%w: %s", ErrPathOutsideDataDir, name)
		}
		name = rel
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideDataDir, name)
	}
	return filepath.Join(s.dataDir, name), nil
}
