// Package scheduler runs periodic expiry checks for long-running processes.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sadopc/streakr/internal/challenge"
)

// Checker is satisfied by *session.Session.
type Checker interface {
	ReloadChallenge() error
	CheckExpiry() (challenge.ExpiryResult, error)
}

// ExpiryChecker periodically reloads the challenge and expires it once its
// window has passed. Overlapping runs are skipped.
type ExpiryChecker struct {
	checker  Checker
	cron     *cron.Cron
	interval time.Duration
	logger   *log.Logger
}

// NewExpiryChecker creates a checker. A nil logger uses log.Default.
func NewExpiryChecker(checker Checker, interval time.Duration, logger *log.Logger, verbose bool) *ExpiryChecker {
	if logger == nil {
		logger = log.Default()
	}
	cronLogger := cron.PrintfLogger(logger)
	if verbose {
		cronLogger = cron.VerbosePrintfLogger(logger)
	}
	return &ExpiryChecker{
		checker: checker,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		interval: interval,
		logger:   logger,
	}
}

func (e *ExpiryChecker) Start() error {
	if e.interval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", e.interval)
	}
	spec := fmt.Sprintf("@every %s", e.interval.String())

	e.logger.Printf("Starting expiry checker with interval: %s", e.interval)

	if _, err := e.cron.AddFunc(spec, func() { e.Run() }); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	e.cron.Start()
	return nil
}

// Stop waits for a running check to finish.
func (e *ExpiryChecker) Stop() {
	e.logger.Println("Stopping expiry checker...")
	ctx := e.cron.Stop()
	<-ctx.Done()
	e.logger.Println("Expiry checker stopped")
}

// Run performs one check and reports whether the challenge expired.
func (e *ExpiryChecker) Run() (bool, error) {
	if err := e.checker.ReloadChallenge(); err != nil {
		e.logger.Printf("Error reloading challenge: %v", err)
		return false, err
	}
	res, err := e.checker.CheckExpiry()
	if err != nil {
		e.logger.Printf("Error checking expiry: %v", err)
		return false, err
	}
	if res.Expired {
		e.logger.Println("Challenge expired; progress reset")
	}
	return res.Expired, nil
}
