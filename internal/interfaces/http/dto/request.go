package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageRequest carries paging parameters.
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize clamps paging parameters to sane bounds.
func (r *PageRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// BindPage binds paging parameters from the query string.
func BindPage(c *gin.Context) PageRequest {
	req := PageRequest{
		Page:     parseIntWithDefault(c.Query("page"), 1),
		PageSize: parseIntWithDefault(c.Query("page_size"), 20),
	}
	req.Normalize()
	return req
}

func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// BindSessionID binds the drafting session id from the URI.
func BindSessionID(c *gin.Context) string {
	return c.Param("sid")
}

// BindConversationID binds the conversation id from the URI.
func BindConversationID(c *gin.Context) string {
	return c.Param("cid")
}
