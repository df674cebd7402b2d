package service

import (
	"context"
	"errors"
	"time"

	"disaster_response/internal/logger"
)

// ScannerService watches the data directory and runs every new or modified file
// through the pipeline once.
type ScannerService struct {
	detection Detection
	pipeline  Pipeline
	log       *logger.Logger
	seen      map[string]time.Time
}

func NewScannerService(detection Detection, pipeline Pipeline, log *logger.Logger) *ScannerService {
	if log == nil {
		log = logger.Nop()
	}
	return &ScannerService{
		detection: detection,
		pipeline:  pipeline,
		log:       log,
		seen:      make(map[string]time.Time),
	}
}

// Run scans immediately, then at every tick until ctx is canceled.
func (s *ScannerService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	s.scanOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.scanOnce(ctx)
		}
	}
}

// scanOnce returns how many files went through the pipeline.
func (s *ScannerService) scanOnce(ctx context.Context) int {
	files, err := s.detection.Files("")
	if err != nil {
		s.log.Errorw("scan_list_failed", "dir", s.detection.DataDir(), "err", err)
		return 0
	}

	processed := 0
	for _, f := range files {
		if ctx.Err() != nil {
			return processed
		}
		if last, ok := s.seen[f.Name]; ok && !f.ModTime.After(last) {
			continue
		}
		// mark before processing so a broken file is not retried until it changes
		s.seen[f.Name] = f.ModTime

		readings, source, err := s.detection.Load(f.Name, "")
		if err != nil {
			s.log.Warnw("scan_file_rejected", "file", f.Name, "err", err)
			continue
		}
		res, err := s.pipeline.Run(ctx, readings, source)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return processed
			}
			s.log.Errorw("scan_pipeline_failed", "file", f.Name, "err", err)
			continue
		}
		processed++
		s.log.Infow("scan_file_processed", "file", f.Name, "risk_level", res.RiskLevel, "readings", res.Analysis.TotalReadings)
	}
	return processed
}
