package terminalApi

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/utils"
)

type WorkflowService struct {
	c *SessionClient
}

func (s *WorkflowService) GetWorkflows(ctx context.Context) (terminalModel.WorkflowsPage, error) {
	op := "WorkflowService.GetWorkflows"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).Get("/workflows/")
	return decode[terminalModel.WorkflowsPage](ctx, op, resp, err)
}

func (s *WorkflowService) CreateWorkflow(ctx context.Context, data terminalModel.WorkflowDraft) (terminalModel.WorkflowResponse, error) {
	op := "WorkflowService.CreateWorkflow"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).SetBody(data).Post("/workflows/")
	return decode[terminalModel.WorkflowResponse](ctx, op, resp, err)
}

func (s *WorkflowService) ExecuteWorkflow(ctx context.Context, id int64) (terminalModel.WorkflowResult, error) {
	return s.post(ctx, "WorkflowService.ExecuteWorkflow", "/workflows/{id}/execute", id)
}

// ToggleWorkflow activates the workflow, the backend endpoint is /activate.
func (s *WorkflowService) ToggleWorkflow(ctx context.Context, id int64) (terminalModel.WorkflowResponse, error) {
	return s.postWorkflow(ctx, "WorkflowService.ToggleWorkflow", "/workflows/{id}/activate", id)
}

func (s *WorkflowService) DeactivateWorkflow(ctx context.Context, id int64) (terminalModel.WorkflowResponse, error) {
	return s.postWorkflow(ctx, "WorkflowService.DeactivateWorkflow", "/workflows/{id}/deactivate", id)
}

func (s *WorkflowService) post(ctx context.Context, op, path string, id int64) (terminalModel.WorkflowResult, error) {
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op), slog.Int64("workflowID", id))

	resp, err := s.c.r(ctx).SetPathParam("id", strconv.FormatInt(id, 10)).Post(path)
	return decode[terminalModel.WorkflowResult](ctx, op, resp, err)
}

func (s *WorkflowService) postWorkflow(ctx context.Context, op, path string, id int64) (terminalModel.WorkflowResponse, error) {
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op), slog.Int64("workflowID", id))

	resp, err := s.c.r(ctx).SetPathParam("id", strconv.FormatInt(id, 10)).Post(path)
	return decode[terminalModel.WorkflowResponse](ctx, op, resp, err)
}
