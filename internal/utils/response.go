package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the JSON envelope of every /console/api reply.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorInfo carries a machine-readable error code.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID  string      `json:"requestId"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a filtered table. Page is 1-based.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for totalItems. An empty result
// still has one page, like the rendered tables.
func NewPagination(page, limit, totalItems int) *Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	pages := (totalItems + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return &Pagination{Page: page, Limit: limit, TotalItems: totalItems, TotalPages: pages}
}

func write(c *gin.Context, resp Response) {
	if resp.Message == "" {
		resp.Message = http.StatusText(resp.Code)
	}
	resp.Meta.RequestID = requestID(c)
	resp.Meta.Timestamp = time.Now().Format(time.RFC3339)
	c.JSON(resp.Code, resp)
}

// Success writes data with the given status.
func Success(c *gin.Context, code int, message string, data any) {
	write(c, Response{Success: true, Code: code, Message: message, Data: data})
}

// SuccessWithPagination writes one table page together with its position.
func SuccessWithPagination(c *gin.Context, code int, message string, data any, page, limit, totalItems int) {
	write(c, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    Meta{Pagination: NewPagination(page, limit, totalItems)},
	})
}

// Error writes a failed reply. errCode is one of the Code constants.
func Error(c *gin.Context, code int, errCode, message string) {
	write(c, Response{
		Code:    code,
		Message: message,
		Error:   &ErrorInfo{Code: errCode, Message: message},
	})
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.NewString()[:8]
}
