package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

// Uploads are capped at 25MB; rental paperwork is PDFs and photos.
const maxUploadBytes = 25 << 20

type DocumentHandler struct {
	log             *logger.Logger
	documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{log: log.With("handler", "DocumentHandler"), documentService: documentService}
}

func formFile(c *gin.Context) (*multipart.FileHeader, multipart.File, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing file field")
	}
	if fh.Size > maxUploadBytes {
		return nil, nil, fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return fh, f, nil
}

// POST /api/properties/:uid/documents/:field (multipart, field "file")
func (h *DocumentHandler) UploadPropertyDocument(c *gin.Context) {
	fh, f, err := formFile(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()

	url, err := h.documentService.UploadPropertyDocument(c.Request.Context(), c.Param("uid"), c.Param("field"), fh.Filename, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}

// DELETE /api/properties/:uid/documents/:field
func (h *DocumentHandler) DeletePropertyDocument(c *gin.Context) {
	if err := h.documentService.DeletePropertyDocument(c.Request.Context(), c.Param("uid"), c.Param("field")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/properties/:uid/renovation-files (multipart, field "file")
func (h *DocumentHandler) UploadRenovationFile(c *gin.Context) {
	fh, f, err := formFile(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()

	url, err := h.documentService.UploadRenovationFile(c.Request.Context(), c.Param("uid"), fh.Filename, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}

// POST /api/leads/:uid/obligatory-docs/:field (multipart, field "file")
func (h *DocumentHandler) UploadLeadObligatoryDoc(c *gin.Context) {
	fh, f, err := formFile(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()

	url, err := h.documentService.UploadLeadObligatoryDoc(c.Request.Context(), c.Param("uid"), c.Param("field"), fh.Filename, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}

// POST /api/leads/:uid/complementary-docs (multipart: "file", "type", "title")
func (h *DocumentHandler) UploadLeadComplementaryDoc(c *gin.Context) {
	fh, f, err := formFile(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()

	url, err := h.documentService.UploadLeadComplementaryDoc(
		c.Request.Context(),
		c.Param("uid"),
		c.PostForm("type"),
		c.PostForm("title"),
		fh.Filename,
		f,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}
