package application

import (
	"time"

	"multimodal-product-discovery/internal/ports"
)

type nopRecorder struct{}

func (nopRecorder) ObserveCatalogSync(error, int, time.Duration) {}
func (nopRecorder) ObserveToggle(string)                         {}
func (nopRecorder) ObserveWebhook(string, string)                {}

func recorderOrNop(m ports.MetricsRecorder) ports.MetricsRecorder {
	if m == nil {
		return nopRecorder{}
	}
	return m
}
