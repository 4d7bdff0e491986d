package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
)

// BillingFacade exposes the subset of application functionality required by the worker.
type BillingFacade interface {
	BillsDueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error)
	MarkBillOverdue(ctx context.Context, billID uuid.UUID) error
}

// OverdueProcessor periodically sweeps pending bills past their due
// date and flips them to overdue concurrently.
type OverdueProcessor struct {
	facade       BillingFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Bill
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOverdueProcessor constructs the overdue sweep worker pool.
func NewOverdueProcessor(facade BillingFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OverdueProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &OverdueProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Bill, batchSize*workers),
	}
}

// Start launches background processing.
func (p *OverdueProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *OverdueProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *OverdueProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *OverdueProcessor) fetchAndDispatch(ctx context.Context) {
	bills, err := p.facade.BillsDueForReview(ctx, time.Now().UTC(), p.batchSize)
	if err != nil {
		p.logger.Error("fetch bills for overdue sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, bill := range bills {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- bill:
		}
	}
}

func (p *OverdueProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case bill, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleBill(ctx, bill)
		}
	}
}

func (p *OverdueProcessor) handleBill(ctx context.Context, bill model.Bill) {
	if err := p.facade.MarkBillOverdue(ctx, bill.ID); err != nil {
		p.logger.Error("mark bill overdue failed",
			slog.String("bill", bill.BillNumber),
			slog.String("error", err.Error()),
		)
		return
	}
	p.logger.Info("bill marked overdue",
		slog.String("bill", bill.BillNumber),
		slog.Int("days_overdue", bill.DaysOverdue(time.Now().UTC())),
	)
}
