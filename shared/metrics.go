package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ServiceMetrics tracks success rates and processing time for a service.
// The scrape orchestrator records one request per court per run.
type ServiceMetrics struct {
	ServiceName           string        `json:"service_name"`
	TotalRequests         int64         `json:"total_requests"`
	SuccessfulRequests    int64         `json:"successful_requests"`
	FailedRequests        int64         `json:"failed_requests"`
	TotalProcessingTime   time.Duration `json:"total_processing_time"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	LastUpdated           time.Time     `json:"last_updated"`
	mutex                 sync.RWMutex
}

// NewServiceMetrics creates a new metrics tracker for a service.
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		ServiceName: serviceName,
		LastUpdated: time.Now(),
	}
}

// RecordRequest records a request with its success status and duration.
func (m *ServiceMetrics) RecordRequest(success bool, processingTime time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRequests++
	m.TotalProcessingTime += processingTime
	m.AverageProcessingTime = time.Duration(int64(m.TotalProcessingTime) / m.TotalRequests)

	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
	}

	m.LastUpdated = time.Now()
}

// SuccessRate returns the success rate as a percentage.
func (m *ServiceMetrics) SuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalRequests == 0 {
		return 0.0
	}
	return float64(m.SuccessfulRequests) / float64(m.TotalRequests) * 100.0
}

// Snapshot returns a copy of the current counters.
func (m *ServiceMetrics) Snapshot() ServiceMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return ServiceMetrics{
		ServiceName:           m.ServiceName,
		TotalRequests:         m.TotalRequests,
		SuccessfulRequests:    m.SuccessfulRequests,
		FailedRequests:        m.FailedRequests,
		TotalProcessingTime:   m.TotalProcessingTime,
		AverageProcessingTime: m.AverageProcessingTime,
		LastUpdated:           m.LastUpdated,
	}
}

// LogSummary logs the current counters with structured fields.
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.Snapshot()
	logrus.WithFields(logrus.Fields{
		"service_name":        snapshot.ServiceName,
		"total_requests":      snapshot.TotalRequests,
		"successful_requests": snapshot.SuccessfulRequests,
		"failed_requests":     snapshot.FailedRequests,
		"avg_processing_time": snapshot.AverageProcessingTime,
	}).Info("Service metrics summary")
}
