package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// createPost is a placeholder: the body is logged and acknowledged, nothing is stored.
func (h *Handler) createPost(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	h.logger.WithField("request_id", c.GetString(requestIDKey)).
		WithField("body", string(raw)).
		Debug("post received")
	c.String(http.StatusOK, "Just got data")
}
