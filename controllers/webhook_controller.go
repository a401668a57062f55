package controllers

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmdavis/whatsapp-diet/services"
)

// twimlResponse is the messaging reply document: exactly one <Message>
// under <Response>.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

type WebhookController struct {
	messages *services.MessageService
}

func NewWebhookController(messages *services.MessageService) *WebhookController {
	return &WebhookController{messages: messages}
}

// Body deliberately has no required binding: an empty message is still
// classified and answered, never rejected at the transport.
type webhookRequest struct {
	Body string `form:"Body"`
	From string `form:"From" binding:"required"`
}

// HandleMessage receives an inbound SMS/WhatsApp webhook. Pipeline failures
// become friendly reply text; the channel always gets a 200 with a reply
// document.
func (wc *WebhookController) HandleMessage(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "From is required"})
		return
	}

	reply := wc.messages.HandleMessage(c.Request.Context(), req.From, req.Body, time.Now())
	c.XML(http.StatusOK, twimlResponse{Message: reply})
}
