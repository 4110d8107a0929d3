package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	attachmentdomain "github.com/smallbiznis/garagebook/internal/attachment/domain"
)

type createAttachmentRequest struct {
	FileName string `json:"fileName" binding:"required,max=255"`
	FileURL  string `json:"fileUrl" binding:"required,max=2048,url"`
	FileType string `json:"fileType" binding:"required,max=100"`
}

func (s *Server) ListAttachments(c *gin.Context) {
	resp, err := s.attachmentSvc.List(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateAttachment(c *gin.Context) {
	var req createAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.attachmentSvc.Create(c.Request.Context(), attachmentdomain.CreateAttachmentRequest{
		JobSheetID: strings.TrimSpace(c.Param("id")),
		FileName:   req.FileName,
		FileURL:    req.FileURL,
		FileType:   req.FileType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteAttachment(c *gin.Context) {
	if err := s.attachmentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}

func isAttachmentValidationError(err error) bool {
	switch err {
	case attachmentdomain.ErrInvalidID,
		attachmentdomain.ErrInvalidFileName,
		attachmentdomain.ErrInvalidFileURL,
		attachmentdomain.ErrInvalidFileType:
		return true
	default:
		return false
	}
}
