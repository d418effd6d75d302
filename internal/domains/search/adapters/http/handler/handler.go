package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecomai/ecom-api-server/internal/domains/search/application"
	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
	apierrors "github.com/ecomai/ecom-api-server/internal/shared/errors"
)

// ChatAPI exposes the assistant over HTTP.
type ChatAPI struct {
	assistant ports.Assistant
}

func NewChatAPI(assistant ports.Assistant) *ChatAPI {
	return &ChatAPI{assistant: assistant}
}

// Register mounts the chat routes on the given group.
func (api *ChatAPI) Register(group *gin.RouterGroup) {
	group.GET("/chat/ask", api.Ask)
}

// Ask handles GET /api/chat/ask?message=.
func (api *ChatAPI) Ask(c *gin.Context) {
	reply, err := api.assistant.Ask(c.Request.Context(), c.Query("message"))
	if err != nil {
		if errors.Is(err, application.ErrEmptyMessage) {
			apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		apierrors.Respond(c, apierrors.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
