package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/bizniz/internal/bizniz/db"
	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconciler recomputes maintained employee counts from a live count of the
// employees that reference each company.
type Reconciler struct {
	repo     Repository
	cache    CompanyCache
	producer EventProducer
	logger   *zap.Logger
}

func NewReconciler(repo Repository, cache CompanyCache, producer EventProducer, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger.Named("reconciler"),
	}
}

// ReconcileCompany stores the live employee count of one company and reports
// the value it replaced.
func (r *Reconciler) ReconcileCompany(ctx context.Context, id uuid.UUID) (*models.Reconciliation, error) {
	var (
		result  models.Reconciliation
		company *models.Company
	)
	err := r.repo.WithTransaction(ctx, func(tx db.Tx) error {
		var err error
		company, err = tx.GetCompany(ctx, id)
		if err != nil {
			return err
		}
		live, err := tx.CountEmployees(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}

		result = models.Reconciliation{CompanyID: id, Previous: company.EmployeeCount, Current: live}
		if !result.Changed() {
			return nil
		}
		company.EmployeeCount = live
		return tx.SetEmployeeCount(ctx, id, live)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to reconcile company %s: %w", id, err)
	}

	if result.Changed() {
		r.cache.Invalidate(ctx, id)
		r.logger.Warn("employee count drift corrected",
			zap.String("company_id", id.String()),
			zap.Int("previous", result.Previous),
			zap.Int("current", result.Current),
		)
		r.producer.Produce(events.NewCompanyEvent(events.CompanyReconciled, company))
	}
	return &result, nil
}

// ReconcileAll reconciles every company and returns the ones whose count was
// corrected. Companies deleted while the pass runs are skipped.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]models.Reconciliation, error) {
	companies, err := r.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	corrected := make([]models.Reconciliation, 0)
	for _, c := range companies {
		res, err := r.ReconcileCompany(ctx, c.ID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				continue
			}
			return corrected, err
		}
		if res.Changed() {
			corrected = append(corrected, *res)
		}
	}

	r.logger.Info("reconciliation pass finished",
		zap.Int("companies", len(companies)),
		zap.Int("corrected", len(corrected)),
	)
	return corrected, nil
}

// HandleEvent reconciles the companies touched by an employee event. Other
// events are ignored.
func (r *Reconciler) HandleEvent(ctx context.Context, event events.Event) error {
	if !event.IsEmployeeEvent() {
		return nil
	}
	for _, id := range event.CompanyIDs() {
		if _, err := r.ReconcileCompany(ctx, id); err != nil && !errors.Is(err, e.ErrNotFound) {
			return err
		}
	}
	return nil
}
