package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	labelingapp "github.com/sewflow/backend/internal/application/labeling"
)

// maxSourceUploadSize caps uploaded label source PDFs at 50 MB
const maxSourceUploadSize = 50 << 20

// LabelHandler handles label source and generation endpoints
type LabelHandler struct {
	BaseHandler
	labelService *labelingapp.Service
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(labelService *labelingapp.Service) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// Upload ingests a label source PDF for a (product, size) pair. The upload
// is multipart: "file" carries the PDF, "product_id" and "size" select the
// slot. Re-uploading replaces the previous source.
func (h *LabelHandler) Upload(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	productID, err := uuid.Parse(c.PostForm("product_id"))
	if err != nil {
		h.BadRequest(c, "invalid product ID")
		return
	}

	size := c.PostForm("size")
	if size == "" {
		h.BadRequest(c, "size is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxSourceUploadSize {
		h.BadRequest(c, fmt.Sprintf("file exceeds %d MB limit", maxSourceUploadSize>>20))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	doc, err := h.labelService.UploadSource(c.Request.Context(), workspaceID, labelingapp.UploadSourceRequest{
		ProductID: productID,
		Size:      size,
		FileName:  fileHeader.Filename,
		Data:      data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// List returns the label source documents of the workspace
func (h *LabelHandler) List(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	docs, err := h.labelService.ListSources(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, docs)
}

// Get returns a single label source document
func (h *LabelHandler) Get(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid document ID")
		return
	}

	doc, err := h.labelService.GetSource(c.Request.Context(), workspaceID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Download serves the remaining pages of a label source as a PDF
func (h *LabelHandler) Download(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid document ID")
		return
	}

	data, fileName, err := h.labelService.DownloadSource(c.Request.Context(), workspaceID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Delete removes a label source document and its page arena
func (h *LabelHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid document ID")
		return
	}

	if err := h.labelService.DeleteSource(c.Request.Context(), workspaceID, docID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Generate composes labels off a source document, consuming its tail pages
func (h *LabelHandler) Generate(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req labelingapp.GenerateLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.labelService.GenerateLabels(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
