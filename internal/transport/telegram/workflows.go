package telegram

import (
	"strconv"
	"strings"

	"github.com/KotFed0t/trading_terminal_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const skipDescription = "-"

func (ctrl *Controller) Workflows(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	workflows, err := ctrl.terminalService.Workflows(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Workflows", err)
	}

	text, markup := telebotConverter.Workflows(workflows, ctrl.theme(ctx, c.Chat().ID))
	return send(c, text, markup)
}

func (ctrl *Controller) NewWorkflow(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.Session{State: model.ExpectingWorkflowName}); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Enter the workflow name:")
}

func (ctrl *Controller) ProcessWorkflowName(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	name := strings.TrimSpace(c.Text())
	if name == "" {
		return c.Send("⚠ name is required")
	}

	chatSession.State = model.ExpectingWorkflowDescription
	chatSession.Draft.WorkflowName = name
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter a description, or " + skipDescription + " to skip:")
}

func (ctrl *Controller) ProcessWorkflowDescription(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	description := strings.TrimSpace(c.Text())
	if description == skipDescription {
		description = ""
	}

	_ = ctrl.setState(ctx, c.Chat().ID, model.Session{})

	wf, err := ctrl.terminalService.CreateWorkflow(ctx, c.Chat().ID, chatSession.Draft.WorkflowName, description)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessWorkflowDescription", err)
	}

	return c.Send(telebotConverter.WorkflowCreated(wf))
}

// ToggleWorkflow payload is "id|active" as rendered on the list.
func (ctrl *Controller) ToggleWorkflow(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 2 {
		return c.Respond(&tele.CallbackResponse{Text: "unknown workflow"})
	}
	workflowID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "unknown workflow"})
	}
	active, _ := strconv.ParseBool(args[1])

	_ = c.Respond()

	wf, err := ctrl.terminalService.ToggleWorkflow(ctx, c.Chat().ID, workflowID, active)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ToggleWorkflow", err)
	}

	theme := ctrl.theme(ctx, c.Chat().ID)
	if err = c.Send(telebotConverter.WorkflowToggled(wf, theme)); err != nil {
		return err
	}

	workflows, err := ctrl.terminalService.Workflows(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ToggleWorkflow", err)
	}
	text, markup := telebotConverter.Workflows(workflows, theme)
	return edit(c, text, markup)
}

func (ctrl *Controller) ExecuteWorkflow(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	workflowID, err := strconv.ParseInt(c.Data(), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "unknown workflow"})
	}

	_ = c.Respond(&tele.CallbackResponse{Text: "running"})

	result, err := ctrl.terminalService.ExecuteWorkflow(ctx, c.Chat().ID, workflowID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ExecuteWorkflow", err)
	}

	return c.Send(telebotConverter.WorkflowExecuted(workflowID, result))
}
