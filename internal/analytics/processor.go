package analytics

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/pkg/useragent"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventKind discriminates the analytics records handled by the processor.
type EventKind string

const (
	EventView      EventKind = "view"
	EventClick     EventKind = "click"
	EventPageVisit EventKind = "page_visit"
)

// Event is one analytics record to be persisted asynchronously.
type Event struct {
	Kind       EventKind
	VehicleID  int64  // view, click
	ClickType  string // click
	Page       string // page_visit
	IPAddress  *string
	UserAgent  *string
	Referrer   *string // page_visit
	OccurredAt time.Time
}

// ProcessorConfig holds configuration for the analytics processor.
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	RetryAttempts   int           // Number of retry attempts for failed jobs
	RetryDelay      time.Duration // Base delay between retries
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Processor persists analytics events off the request path. Submission never
// blocks and failures never propagate to the page-serving operation: a full
// queue or an exhausted retry budget drops the event with an error log.
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	log      *zap.Logger
	jobQueue chan *Event
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
}

// NewProcessor creates a new analytics processor.
func NewProcessor(storage repository.Storage, log *zap.Logger, config ProcessorConfig) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		log:      log,
		jobQueue: make(chan *Event, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing analytics events.
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}

	p.log.Info("starting analytics processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
		zap.Int("retry_attempts", p.config.RetryAttempts),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop gracefully shuts down the processor, draining queued events.
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	p.log.Info("stopping analytics processor")

	p.cancel()
	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("analytics processor stopped gracefully")
	case <-time.After(p.config.ShutdownTimeout):
		p.log.Warn("analytics processor shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}

	p.started = false
	return nil
}

// Submit queues an analytics event. It never blocks: when the queue is full
// the event is dropped and logged.
func (p *Processor) Submit(event *Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case p.jobQueue <- event:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("processor is shutting down")
	default:
		p.log.Error("analytics queue is full, dropping event",
			zap.String("kind", string(event.Kind)),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		return fmt.Errorf("analytics queue is full")
	}
}

func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Info("analytics worker started")

	for event := range p.jobQueue {
		if event == nil {
			continue
		}
		p.processWithRetry(log, event)
	}

	log.Info("analytics worker stopped")
}

func (p *Processor) processWithRetry(log *zap.Logger, event *Event) {
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := p.process(ctx, event)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info("event processing succeeded after retry",
					zap.String("kind", string(event.Kind)),
					zap.Int("attempt", attempt),
				)
			}
			return
		}

		lastErr = err
		log.Warn("event processing failed",
			zap.String("kind", string(event.Kind)),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.RetryAttempts),
			zap.Error(err),
		)

		if attempt == p.config.RetryAttempts {
			break
		}

		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			// Shutdown is underway; give the event one final immediate try.
		}
	}

	// Analytics is best-effort: exhausting retries only logs.
	log.Error("event processing failed after all retries",
		zap.String("kind", string(event.Kind)),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Error(lastErr),
	)
}

func (p *Processor) process(ctx context.Context, event *Event) error {
	switch event.Kind {
	case EventView:
		view := &domain.View{
			VehicleID: event.VehicleID,
			IPAddress: event.IPAddress,
			UserAgent: event.UserAgent,
			Timestamp: event.OccurredAt,
		}
		return p.storage.CreateView(ctx, view)

	case EventClick:
		click := &domain.Click{
			VehicleID: event.VehicleID,
			ClickType: event.ClickType,
			IPAddress: event.IPAddress,
			UserAgent: event.UserAgent,
			Timestamp: event.OccurredAt,
		}
		deviceType := p.detectDeviceType(event.UserAgent)
		click.DeviceType = &deviceType
		return p.storage.CreateClick(ctx, click)

	case EventPageVisit:
		visit := &domain.PageVisit{
			Page:      event.Page,
			IPAddress: event.IPAddress,
			UserAgent: event.UserAgent,
			Referrer:  event.Referrer,
			CreatedAt: event.OccurredAt,
		}
		return p.storage.CreatePageVisit(ctx, visit)

	default:
		return fmt.Errorf("unknown event kind: %s", event.Kind)
	}
}

func (p *Processor) detectDeviceType(ua *string) string {
	if ua == nil || *ua == "" {
		return useragent.DeviceUnknown
	}
	if parser := useragent.GetGlobalParser(); parser != nil {
		return parser.DetectDeviceType(*ua)
	}
	return useragent.Detect(*ua)
}

// GetStats returns processor statistics.
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"retry_attempts": p.config.RetryAttempts,
	}
}
