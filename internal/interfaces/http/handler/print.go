package handler

import (
	"github.com/gin-gonic/gin"

	workflowapp "github.com/sewflow/backend/internal/application/workflow"
)

// PrintHandler handles print queue endpoints
type PrintHandler struct {
	BaseHandler
	printService *workflowapp.PrintService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService *workflowapp.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// List returns the print queue of the workspace
func (h *PrintHandler) List(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	tasks, err := h.printService.ListTasks(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tasks)
}

// Copy copies order items into the print queue, merging lines that share
// product, size and color
func (h *PrintHandler) Copy(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req workflowapp.CopyToPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.printService.CopyFromOrder(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update patches a print task
func (h *PrintHandler) Update(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid task ID")
		return
	}

	var req workflowapp.UpdatePrintTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.printService.UpdateTask(c.Request.Context(), workspaceID, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// Complete finishes a print task: film is deducted, the originating order
// items are marked printed and the task leaves the queue
func (h *PrintHandler) Complete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid task ID")
		return
	}

	if err := h.printService.CompleteTask(c.Request.Context(), workspaceID, taskID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a print task without completing it
func (h *PrintHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid task ID")
		return
	}

	if err := h.printService.DeleteTask(c.Request.Context(), workspaceID, taskID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Clear empties the print queue of the workspace
func (h *PrintHandler) Clear(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	removed, err := h.printService.ClearQueue(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"removed": removed})
}
