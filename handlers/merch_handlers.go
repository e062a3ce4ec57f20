// api/handlers/merch_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopfront/api/models"
)

// MerchLister is the slice of the catalog store the handler needs.
type MerchLister interface {
	ListMerch(ctx context.Context) ([]models.RawMerch, error)
}

type MerchHandlers struct {
	Merch MerchLister
}

func NewMerchHandlers(s MerchLister) *MerchHandlers {
	return &MerchHandlers{Merch: s}
}

// GetMerch serves the catalog wrapped in the responseData envelope. Rows are
// returned as stored, optional fields and all: filling in missing fields is
// the storefront's job, not the API's.
func (h *MerchHandlers) GetMerch(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.Merch.ListMerch(ctx)
	if err != nil {
		log.Printf("Error listing merchandise: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve merchandise"})
		return
	}

	if items == nil {
		items = []models.RawMerch{}
	}

	c.JSON(http.StatusOK, gin.H{"responseData": items})
}
