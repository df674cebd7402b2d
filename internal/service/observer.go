package service

import dr "disaster_response"

// Observer receives domain events for instrumentation.
type Observer interface {
	ObserveBatch(res dr.BatchResult)
	ObserveSink(status string)
	ObserveAlerts(alerts []dr.Alert)
	ObserveNotify(notifier string, err error)
}

// NopObserver drops every event.
type NopObserver struct{}

func (NopObserver) ObserveBatch(dr.BatchResult)  {}
func (NopObserver) ObserveSink(string)           {}
func (NopObserver) ObserveAlerts([]dr.Alert)     {}
func (NopObserver) ObserveNotify(string, error) {}
