package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	certificateUC "github.com/khoahotran/pawpal/internal/application/usecase/certificate"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

// maxCertificateBytes bounds a single certificate upload.
const maxCertificateBytes = 10 << 20

type CertificateHandler struct {
	uploadUC *certificateUC.UploadCertificateUseCase
	useCase  *certificateUC.CertificateUseCase
	logger   logger.Logger
}

func NewCertificateHandler(uploadUC *certificateUC.UploadCertificateUseCase, uc *certificateUC.CertificateUseCase, log logger.Logger) *CertificateHandler {
	return &CertificateHandler{uploadUC: uploadUC, useCase: uc, logger: log}
}

func (h *CertificateHandler) Upload(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if fileHeader.Size > maxCertificateBytes {
		c.Error(apperror.NewInvalidInput("file is larger than 10MB", nil))
		return
	}
	issuedAt := c.PostForm("issued_at")
	issued, err := parseDate("issued_at", &issuedAt)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	cert, err := h.uploadUC.Execute(c.Request.Context(), certificateUC.UploadCertificateInput{
		OwnerID:  ownerID,
		DogID:    dogID,
		Title:    c.PostForm("title"),
		Issuer:   c.PostForm("issuer"),
		IssuedAt: issued,
		FileName: fileHeader.Filename,
		File:     file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, cert)
}

func (h *CertificateHandler) List(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	certs, err := h.useCase.List(c.Request.Context(), ownerID, dogID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, certs)
}

func (h *CertificateHandler) Get(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.useCase.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *CertificateHandler) Delete(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
