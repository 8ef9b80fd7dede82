// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether audit logging is active.
	Enabled bool

	// BufferSize is the size of the async write buffer.
	BufferSize int

	// LogToStdout also writes events to the application log.
	LogToStdout bool

	// Synchronous writes events on the caller's goroutine instead of
	// through the buffer.
	Synchronous bool
}

// DefaultConfig returns the default audit configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		BufferSize: 1000,
	}
}

// Logger records audit events into a Store.
type Logger struct {
	config    Config
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewLogger creates an audit logger. Unless the config is synchronous, a
// background writer drains the buffer until Close.
func NewLogger(store Store, config Config) *Logger {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	l := &Logger{
		config:   config,
		store:    store,
		stopChan: make(chan struct{}),
	}
	if !config.Synchronous {
		l.eventChan = make(chan *Event, config.BufferSize)
		l.wg.Add(1)
		go l.asyncWriter()
	}
	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	if l.config.LogToStdout {
		if data, err := json.Marshal(event); err == nil {
			logging.Info().RawJSON("event", data).Msg("Audit event")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
	}
}

// Log records an audit event, filling in ID and timestamp when unset.
// It never blocks: when the buffer is full the event is dropped.
func (l *Logger) Log(event *Event) {
	if l == nil || !l.config.Enabled {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	metrics.AuditEventsTotal.WithLabelValues(string(event.Type), string(event.Outcome)).Inc()

	if l.config.Synchronous {
		l.writeEvent(event)
		return
	}

	select {
	case l.eventChan <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// Record logs an event of type typ for r. A nil err records success.
func (l *Logger) Record(r *http.Request, actor string, typ EventType, err error, metadata map[string]any) {
	if !l.Enabled() {
		return
	}
	event := &Event{
		Type:      typ,
		Outcome:   OutcomeSuccess,
		Actor:     actor,
		Source:    SourceFromRequest(r),
		Metadata:  metadata,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if err != nil {
		event.Outcome = OutcomeFailure
		event.Error = logging.SanitizeError(err.Error())
	}
	l.Log(event)
}

// Query retrieves events matching the filter. The limit defaults to
// DefaultQueryLimit and is capped at MaxQueryLimit.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultQueryLimit
	}
	filter.Limit = min(filter.Limit, MaxQueryLimit)
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// Prune deletes events recorded before olderThan.
func (l *Logger) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	return l.store.Delete(ctx, olderThan)
}

// Enabled reports whether audit logging is active.
func (l *Logger) Enabled() bool {
	return l != nil && l.config.Enabled
}

// Close stops the background writer after draining the buffer.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}

// SourceFromRequest extracts the client address and user agent.
func SourceFromRequest(r *http.Request) Source {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = strings.TrimSpace(r.RemoteAddr)
	}
	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
