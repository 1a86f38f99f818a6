package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
)

type UploadHandler struct {
	ingestService *app.IngestService
}

func NewUploadHandler(ingestService *app.IngestService) *UploadHandler {
	return &UploadHandler{ingestService: ingestService}
}

// UploadResponse is the wire shape of a successful upload. The client keeps
// the rest of the document record (filename, size, timestamp) itself.
type UploadResponse struct {
	Summary    string `json:"summary"`
	DocumentID string `json:"documentId"`
	PageCount  int    `json:"pageCount"`
}

// Upload accepts a multipart form with field "file" and runs the ingestion
// pipeline. The 10MB limit is enforced client-side only; any pipeline
// failure surfaces as a plain-text 500 carrying the underlying message.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "No file provided")
		return
	}

	f, err := file.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to read file: %s", err.Error())
		return
	}
	defer f.Close()

	doc, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		Filename: file.Filename,
		Size:     file.Size,
		File:     f,
	})
	if err != nil {
		slog.Error("ingest failed", "filename", file.Filename, "error", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("document ingested",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"page_count", doc.PageCount,
	)
	c.JSON(http.StatusOK, UploadResponse{
		Summary:    doc.Summary,
		DocumentID: doc.ID,
		PageCount:  doc.PageCount,
	})
}
