package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultAuditSchedule runs the invariant check once an hour.
const DefaultAuditSchedule = "@every 1h"

var ErrOwnerNotEducator = errors.New("registry owner does not hold the educator role")

// AuditTarget is the part of Host the auditor reads.
type AuditTarget interface {
	Audit(ctx context.Context) (AuditReport, error)
}

// Auditor periodically checks that the owner still holds the Educator role.
type Auditor struct {
	target   AuditTarget
	schedule string
	logger   *zap.Logger
}

// NewAuditor creates a new auditor. An empty schedule means DefaultAuditSchedule.
func NewAuditor(target AuditTarget, schedule string, logger *zap.Logger) *Auditor {
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}
	return &Auditor{
		target:   target,
		schedule: schedule,
		logger:   logger,
	}
}

// Start runs the audit on schedule until ctx is done.
func (a *Auditor) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(a.schedule, func() {
		if err := a.RunOnce(ctx); err != nil {
			a.logger.Error("registry audit failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add audit job: %w", err)
	}

	c.Start()
	a.logger.Info("registry auditor started", zap.String("schedule", a.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	a.logger.Info("registry auditor stopped")
	return nil
}

// RunOnce performs a single audit.
func (a *Auditor) RunOnce(ctx context.Context) error {
	report, err := a.target.Audit(ctx)
	if err != nil {
		return fmt.Errorf("audit registry: %w", err)
	}

	if !report.OwnerIsEducator {
		a.logger.Error("registry invariant broken",
			zap.String("owner", report.Owner.String()),
			zap.Error(ErrOwnerNotEducator),
		)
		return ErrOwnerNotEducator
	}

	a.logger.Info("registry audit passed",
		zap.String("owner", report.Owner.String()),
		zap.Int("questions", report.Questions),
	)
	return nil
}
