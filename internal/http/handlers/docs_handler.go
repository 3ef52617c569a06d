package handlers

import (
	"net/http"

	"tiyende/internal/http/middleware"
	"tiyende/internal/services"

	"github.com/gin-gonic/gin"
)

// GetTicketETicketPDF returns the printable e-ticket of a ticket as an attachment.
func (h *Handler) GetTicketETicketPDF(c *gin.Context) {
	id, ok := parseID(c, "id", "ticket")
	if !ok {
		return
	}

	svc := services.DocsService{
		Store:     h.Store,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateETicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
