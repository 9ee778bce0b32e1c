package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	uploadFormField = "file"
	// multipartOverhead запас на заголовки multipart сверх размера самого файла.
	multipartOverhead = 64 << 10
)

type UploadsHandler struct {
	uploads UploadServicer
}

func NewUploadsHandler(uploads UploadServicer) *UploadsHandler {
	return &UploadsHandler{
		uploads: uploads,
	}
}

// Create POST RouteGroup + UploadsRoute. Принимает multipart поле file, отдает url сохраненного файла.
func (h *UploadsHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes()+multipartOverhead)

	fileHeader, formErr := c.FormFile(uploadFormField)
	if formErr != nil {
		var maxErr *http.MaxBytesError
		if errors.As(formErr, &maxErr) {
			_ = c.AbortWithError(http.StatusRequestEntityTooLarge, errors.New("file too large")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("multipart field \"file\" is required")).
			SetType(gin.ErrorTypePublic)
		return
	}

	file, openErr := fileHeader.Open()
	if openErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, openErr).SetType(gin.ErrorTypePrivate)
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	upload, err := h.uploads.Save(ctx, file)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, upload)
}
