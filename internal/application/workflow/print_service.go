package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// PrintService handles the print queue: copying order lines in, task edits,
// completion with film deduction, and queue clearing.
type PrintService struct {
	scope  TransactionScope
	tasks  workflow.PrintTaskRepository
	orders workflow.OrderRepository
	logger *zap.Logger
}

// NewPrintService creates a new PrintService
func NewPrintService(scope TransactionScope, tasks workflow.PrintTaskRepository, orders workflow.OrderRepository, logger *zap.Logger) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{scope: scope, tasks: tasks, orders: orders, logger: logger}
}

// ListTasks returns the print queue of a workspace in creation order
func (s *PrintService) ListTasks(ctx context.Context, workspaceID uuid.UUID) ([]PrintTaskResponse, error) {
	tasks, err := s.tasks.FindAllForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list print tasks: %w", err)
	}
	out := make([]PrintTaskResponse, len(tasks))
	for i := range tasks {
		out[i] = *toPrintTaskResponse(&tasks[i])
	}
	return out, nil
}

// CopyFromOrder sends order lines to the print queue. Lines whose print
// already finished are rejected up front, naming the offenders. A line whose
// (product, size, color) key already has a queued task merges into it:
// quantities sum and the linked order-item set grows.
func (s *PrintService) CopyFromOrder(ctx context.Context, workspaceID uuid.UUID, req CopyToPrintRequest) (*CopyToPrintResponse, error) {
	order, err := s.orders.FindByID(ctx, workspaceID, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	items := selectOrderItems(order, req.ItemIDs)
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "no order items to copy")
	}

	var done []string
	for _, item := range items {
		if item.IsPrintDone() {
			done = append(done, itemDisplayName(item))
		}
	}
	if len(done) > 0 {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("cannot copy items that are already printed: %s", summarizeNames(done)))
	}

	resp := &CopyToPrintResponse{}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range items {
			task, err := repos.PrintTasks().FindByKey(ctx, workspaceID, item.ProductExternalID, item.TechSize, item.Color)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				task, err = workflow.NewPrintTaskFromOrderItem(workspaceID, item)
				if err != nil {
					return err
				}
			case err != nil:
				return fmt.Errorf("failed to look up print task: %w", err)
			default:
				if err := task.MergeOrderItem(item); err != nil {
					return err
				}
			}
			if err := repos.PrintTasks().Save(ctx, task); err != nil {
				return fmt.Errorf("failed to save print task: %w", err)
			}

			item.MarkPrintInWork()
			if err := repos.Orders().SaveItem(ctx, item); err != nil {
				return fmt.Errorf("failed to update order item: %w", err)
			}

			resp.CopiedItems++
			resp.CopiedUnits += item.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order items copied to print queue",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", resp.CopiedItems),
		zap.Int("units", resp.CopiedUnits))

	return resp, nil
}

// UpdateTask patches a print task
func (s *PrintService) UpdateTask(ctx context.Context, workspaceID, taskID uuid.UUID, req UpdatePrintTaskRequest) (*PrintTaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, workspaceID, taskID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print task not found")
		}
		return nil, fmt.Errorf("failed to load print task: %w", err)
	}

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
		}
		task.Quantity = *req.Quantity
	}
	if req.FilmUsage != nil {
		if req.FilmUsage.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "film usage must be non-negative")
		}
		task.FilmUsage = *req.FilmUsage
	}
	if req.PrintLink != nil {
		task.PrintLink = *req.PrintLink
	}
	if req.PrintStatus != nil {
		task.PrintStatus = *req.PrintStatus
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Selected != nil {
		task.Selected = *req.Selected
	}
	task.IncrementVersion()

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save print task: %w", err)
	}
	return toPrintTaskResponse(task), nil
}

// CompleteTask finishes a print job: the film it consumed is deducted from
// the material ledger, the linked order lines flip to printed, and the task
// leaves the queue. Insufficient film fails the whole operation.
func (s *PrintService) CompleteTask(ctx context.Context, workspaceID, taskID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		task, err := repos.PrintTasks().FindByID(ctx, workspaceID, taskID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Print task not found")
			}
			return fmt.Errorf("failed to load print task: %w", err)
		}

		if task.FilmUsage.IsPositive() {
			ledger, err := repos.MaterialLedgers().FindOrCreateForWorkspace(ctx, workspaceID)
			if err != nil {
				return fmt.Errorf("failed to load material ledger: %w", err)
			}
			if err := ledger.DeductFilm(task.FilmUsage); err != nil {
				return err
			}
			if err := repos.MaterialLedgers().Save(ctx, ledger); err != nil {
				return fmt.Errorf("failed to save material ledger: %w", err)
			}
			s.recordFilmUsage(ctx, repos, workspaceID, task)
		}

		for _, itemID := range task.OrderItemIDs {
			item, err := repos.Orders().FindItemByID(ctx, workspaceID, itemID)
			if errors.Is(err, shared.ErrNotFound) {
				// the originating order was deleted meanwhile
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to load order item: %w", err)
			}
			item.MarkPrintDone()
			if err := repos.Orders().SaveItem(ctx, item); err != nil {
				return fmt.Errorf("failed to update order item: %w", err)
			}
		}

		return repos.PrintTasks().Delete(ctx, workspaceID, task.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("print task completed", zap.String("task_id", taskID.String()))
	return nil
}

// recordFilmUsage books the consumed film on the day's usage row for the
// task's product line. Reporting data, so a failure is logged but never
// aborts the completion.
func (s *PrintService) recordFilmUsage(ctx context.Context, repos TransactionalRepositories, workspaceID uuid.UUID, task *workflow.PrintTask) {
	entry, err := loadUsageEntry(ctx, repos, workspaceID, task.Brand, task.Title, task.Color)
	if err != nil {
		s.logger.Warn("usage ledger lookup failed", zap.Error(err))
		return
	}
	entry.AddFilm(task.FilmUsage)
	if err := repos.Usage().Save(ctx, entry); err != nil {
		s.logger.Warn("usage ledger save failed", zap.Error(err))
	}
}

// DeleteTask removes a task from the queue without touching order lines
func (s *PrintService) DeleteTask(ctx context.Context, workspaceID, taskID uuid.UUID) error {
	if _, err := s.tasks.FindByID(ctx, workspaceID, taskID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Print task not found")
		}
		return fmt.Errorf("failed to load print task: %w", err)
	}
	return s.tasks.Delete(ctx, workspaceID, taskID)
}

// ClearQueue drops every task of the workspace and reports how many went
func (s *PrintService) ClearQueue(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	removed, err := s.tasks.DeleteAllForWorkspace(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear print queue: %w", err)
	}
	s.logger.Info("print queue cleared", zap.Int64("removed", removed))
	return removed, nil
}

// selectOrderItems picks the requested lines out of a loaded order. An empty
// ID list selects every line.
func selectOrderItems(order *workflow.Order, itemIDs []uuid.UUID) []*workflow.OrderItem {
	if len(itemIDs) == 0 {
		out := make([]*workflow.OrderItem, len(order.Items))
		for i := range order.Items {
			out[i] = &order.Items[i]
		}
		return out
	}
	wanted := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	var out []*workflow.OrderItem
	for i := range order.Items {
		if _, ok := wanted[order.Items[i].ID]; ok {
			out = append(out, &order.Items[i])
		}
	}
	return out
}

func itemDisplayName(item *workflow.OrderItem) string {
	name := item.Title
	if name == "" {
		name = item.VendorCode
	}
	if item.TechSize != "" {
		name += " (" + item.TechSize + ")"
	}
	return name
}

// summarizeNames shortens long offender lists to the first three entries
func summarizeNames(names []string) string {
	if len(names) <= 3 {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:3], ", "), len(names)-3)
}
