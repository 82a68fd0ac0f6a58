package services

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
	"fintrack/internal/trace"
)

// Reporter produces month-period summaries from the store.
type Reporter struct {
	store  *storage.Store
	logger *log.Logger
}

func NewReporter(store *storage.Store, logger *log.Logger) *Reporter {
	return &Reporter{
		store:  store,
		logger: logger.WithComponent(log.ComponentReport),
	}
}

// MonthlyReport aggregates a user's activity for one "YYYY-MM" period.
// A period with no matching data yields a valid empty report.
func (r *Reporter) MonthlyReport(ctx context.Context, userID int64, month string) (*core.Report, error) {
	period, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	txs, err := r.store.ListTransactionsForMonth(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	budgets, err := r.store.ListBudgetsForMonth(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	goals, err := r.store.ListSavingsGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := core.BuildReport(period, txs, budgets, goals)
	r.logger.InfoContext(ctx, "Report generated",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldUserID, userID,
		log.FieldMonth, period.String(),
		log.FieldCount, len(txs))
	return report, nil
}
