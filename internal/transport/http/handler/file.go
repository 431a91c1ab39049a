package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docuchat/internal/app"
	"docuchat/internal/transport/http/middleware"
	"docuchat/internal/transport/http/response"
)

type FileHandler struct {
	fileService *app.FileService
	publicPath  string
}

func NewFileHandler(fileService *app.FileService, publicPath string) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		publicPath:  strings.TrimRight(publicPath, "/"),
	}
}

// multipartOverhead leaves room for the boundary and part headers on top
// of the blob cap when bounding the raw request body.
const multipartOverhead = 1 << 20

func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Bound the body before the multipart parser buffers any of it, so an
	// oversize request is cut off at the wire instead of spooled and read.
	maxBytes := h.fileService.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.Error(c, http.StatusBadRequest, app.ErrFileTooLarge.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, "no file uploaded")
		return
	}
	if fileHeader.Size > maxBytes {
		response.Error(c, http.StatusBadRequest, app.ErrFileTooLarge.Error())
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file upload")
		return
	}

	file, err := h.fileService.Upload(c.Request.Context(), app.UploadInput{
		OwnerID:      userID,
		OriginalName: filepath.Base(fileHeader.Filename),
		ContentType:  uploadContentType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename),
		Data:         data,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "no file uploaded")
		case errors.Is(err, app.ErrUnsupportedType):
			response.Error(c, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, app.ErrFileTooLarge):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	response.OK(c, gin.H{
		"file":        file,
		"downloadUrl": h.publicPath + "/" + file.StoredName,
	})
}

func (h *FileHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	files, err := h.fileService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list files failed")
		return
	}

	response.OK(c, gin.H{"files": files})
}

func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	fileID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || fileID64 == 0 {
		response.Error(c, http.StatusBadRequest, "invalid file id")
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), userID, uint(fileID64)); err != nil {
		switch {
		case errors.Is(err, app.ErrFileNotFound):
			response.Error(c, http.StatusNotFound, "file not found")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid file id")
		default:
			response.Error(c, http.StatusInternalServerError, "delete file failed")
		}
		return
	}

	response.OK(c, gin.H{"success": true})
}

// uploadContentType prefers the multipart part's declared type and falls
// back to the filename extension when the client omitted it.
func uploadContentType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return declared
}
