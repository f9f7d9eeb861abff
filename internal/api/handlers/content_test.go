package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

// brokenContentStore fails every read, standing in for a database outage
type brokenContentStore struct {
	services.ContentStore
}

func (brokenContentStore) ListContentItemsByType(ctx context.Context, contentType string) ([]database.ContentItem, error) {
	return nil, errors.New("connection refused")
}

func TestGetVisibleStoreFailureIsServerError(t *testing.T) {
	h := NewContentHandler(services.NewContentService(brokenContentStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/content/visible/hero?persona=parent&funnelStage=awareness", nil)
	req.SetPathValue("type", "hero")
	rec := httptest.NewRecorder()

	h.GetVisible(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetVisibleUnknownTypeIsClientError(t *testing.T) {
	h := NewContentHandler(services.NewContentService(brokenContentStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/content/visible/banner?persona=parent&funnelStage=awareness", nil)
	req.SetPathValue("type", "banner")
	rec := httptest.NewRecorder()

	h.GetVisible(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVisibleMissingParamsRejected(t *testing.T) {
	h := NewContentHandler(services.NewContentService(brokenContentStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/content/visible/hero", nil)
	req.SetPathValue("type", "hero")
	rec := httptest.NewRecorder()

	h.GetVisible(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
