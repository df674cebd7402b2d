package service

import (
	dr "disaster_response"
	"disaster_response/internal/risk"
)

type AnalysisService struct {
	thresholds risk.Thresholds
	obs        Observer
}

func NewAnalysisService(obs Observer) *AnalysisService {
	if obs == nil {
		obs = NopObserver{}
	}
	return &AnalysisService{thresholds: risk.DefaultThresholds, obs: obs}
}

func (s *AnalysisService) Analyze(readings []dr.SensorReading) dr.BatchResult {
	res := s.thresholds.Analyze(readings)
	s.obs.ObserveBatch(res)
	return res
}
