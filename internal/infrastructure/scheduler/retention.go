package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cleaner deletes stored documents older than a given age
type Cleaner interface {
	Cleanup(ctx context.Context, age time.Duration) (int, error)
}

// RetentionConfig holds configuration for the PDF retention sweeper
type RetentionConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// MaxAge is how long a rendered PDF is kept
	MaxAge time.Duration

	// Interval is the time between two sweeps
	Interval time.Duration

	// Timeout is the maximum time for a single sweep
	Timeout time.Duration
}

// DefaultRetentionConfig returns a sweeper that keeps PDFs for a week
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Enabled:  true,
		MaxAge:   7 * 24 * time.Hour,
		Interval: time.Hour,
		Timeout:  5 * time.Minute,
	}
}

// Validate checks the configuration
func (c RetentionConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MaxAge <= 0 {
		return fmt.Errorf("%w: max age must be positive", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// RetentionScheduler periodically removes expired PDFs from storage
type RetentionScheduler struct {
	cleaner   Cleaner
	logger    *zap.Logger
	config    RetentionConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   RetentionRun
}

// RetentionRun describes the outcome of one sweep
type RetentionRun struct {
	StartedAt time.Time
	Duration  time.Duration
	Deleted   int
	Err       error
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(cleaner Cleaner, logger *zap.Logger, config RetentionConfig) *RetentionScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultRetentionConfig().Timeout
	}
	return &RetentionScheduler{
		cleaner: cleaner,
		logger:  logger,
		config:  config,
	}
}

// Start sweeps once immediately and then every configured interval
func (s *RetentionScheduler) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("PDF retention scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("PDF retention scheduler started",
		zap.Duration("max_age", s.config.MaxAge),
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *RetentionScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("PDF retention scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("PDF retention scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *RetentionScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.executeCleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("PDF retention loop stopping")
			return
		case <-ticker.C:
			s.executeCleanup(ctx)
		}
	}
}

func (s *RetentionScheduler) executeCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	deleted, err := s.cleaner.Cleanup(cleanupCtx, s.config.MaxAge)
	duration := time.Since(startTime)

	s.mu.Lock()
	s.lastRun = RetentionRun{StartedAt: startTime, Duration: duration, Deleted: deleted, Err: err}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("PDF retention sweep failed",
			zap.Duration("duration", duration),
			zap.Int("deleted_count", deleted),
			zap.Error(err),
		)
		return
	}

	if deleted > 0 {
		s.logger.Info("PDF retention sweep completed",
			zap.Duration("duration", duration),
			zap.Int("deleted_count", deleted),
		)
	}
}

// TriggerImmediateCleanup runs a sweep now without waiting for the ticker
func (s *RetentionScheduler) TriggerImmediateCleanup(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate PDF retention sweep")

	go func() {
		defer s.wg.Done()
		s.executeCleanup(ctx)
	}()
	return nil
}

// LastRun returns the outcome of the most recent sweep
func (s *RetentionScheduler) LastRun() RetentionRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// IsRunning returns whether the scheduler is running
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
