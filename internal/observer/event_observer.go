// Package observer publishes analysis lifecycle events to registered
// observers.
package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent describes one step in an analysis lifecycle
type AnalysisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ImageURL       string                 `json:"image_url"`
	Profile        string                 `json:"profile,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// AnalysisStarted when a region analysis begins
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when a region analysis finishes successfully
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when a region analysis fails
	AnalysisFailed EventType = "analysis_failed"
	// TrafficLightClassified when a traffic light region was classified
	TrafficLightClassified EventType = "traffic_light_classified"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"image_url":       event.ImageURL,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.Profile != "" {
		fields["profile"] = event.Profile
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Debug("Region analysis started")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Region analysis completed")
	case AnalysisFailed:
		o.logger.WithFields(fields).Error("Region analysis failed")
	case TrafficLightClassified:
		o.logger.WithFields(fields).Info("Traffic light classified")
	default:
		o.logger.WithFields(fields).Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// StatsObserver keeps per-event counters
type StatsObserver struct {
	mu                  sync.RWMutex
	started             time.Time
	counts              map[EventType]int64
	totalProcessingTime time.Duration
}

// NewStatsObserver creates a new stats observer
func NewStatsObserver() *StatsObserver {
	return &StatsObserver{
		started: time.Now(),
		counts:  make(map[EventType]int64),
	}
}

// OnEvent handles analysis events by counting them
func (o *StatsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.counts[event.EventType]++
	if event.EventType == AnalysisCompleted || event.EventType == TrafficLightClassified {
		o.totalProcessingTime += event.ProcessingTime
	}
}

// GetObserverName returns the observer name
func (o *StatsObserver) GetObserverName() string {
	return "stats_observer"
}

// GetStats returns a snapshot of the counters
func (o *StatsObserver) GetStats() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	completed := o.counts[AnalysisCompleted] + o.counts[TrafficLightClassified]
	avgProcessingTime := time.Duration(0)
	if completed > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(completed)
	}

	return map[string]interface{}{
		"analyses_started":          o.counts[AnalysisStarted],
		"analyses_completed":        o.counts[AnalysisCompleted],
		"analyses_failed":           o.counts[AnalysisFailed],
		"traffic_lights_classified": o.counts[TrafficLightClassified],
		"avg_processing_time":       avgProcessingTime.String(),
		"uptime":                    time.Since(o.started).String(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event. Observers run
// concurrently; a panicking observer is logged and never takes the
// publisher down.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
