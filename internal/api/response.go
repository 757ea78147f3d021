package api

import (
	"errors"
	"net/http"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/gin-gonic/gin"
)

// Response is the envelope for every API response.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: "created", Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

// failWith maps err onto an HTTP status.
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrNoCandidates):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrDuplicateEntry):
		fail(c, http.StatusConflict, err.Error())
	default:
		common.LogError(err, "Request failed", common.Fields{"path": c.FullPath()})
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
