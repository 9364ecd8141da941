package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"erp-import-platform/internal/models"
	"erp-import-platform/internal/services"
)

type mockValidationService struct {
	mock.Mock
}

func (m *mockValidationService) Validate(ctx context.Context, userID string, req *services.ValidateRequest) (*services.ValidateResponse, error) {
	args := m.Called(ctx, userID, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*services.ValidateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func validationRouter(service services.ValidationService, t *testing.T) *mux.Router {
	router := mux.NewRouter()
	NewValidationHandler(handlerLogger(), service, testValidator(t)).RegisterRoutes(router)
	return router
}

func validateBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(services.ValidateRequest{
		ConnectionID: "conn-1",
		EntityType:   models.EntityStockItem,
		Mode:         models.ModeCreate,
		Rows:         []map[string]string{{"SKU": "ITEM-001"}},
		Mappings: []models.FieldMapping{
			{SourceColumn: "SKU", TargetField: "InventoryID", Confidence: models.ConfidenceExact},
		},
	})
	require.NoError(t, err)
	return body
}

func TestValidationHandlerReturnsResults(t *testing.T) {
	service := new(mockValidationService)
	service.On("Validate", mock.Anything, "user-1", mock.Anything).Return(&services.ValidateResponse{
		ValidationResults: []models.RowValidationResult{
			{RowIndex: 0, Status: models.RowPass},
		},
		LookupWarnings: []string{"Failed to fetch Item Classes: timeout. Lookup validation will be skipped for this field."},
		Summary:        models.ValidationSummary{Total: 1, Pass: 1},
	}, nil)

	rec := httptest.NewRecorder()
	validationRouter(service, t).ServeHTTP(rec, authenticatedRequest("POST", "/validate", validateBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp services.ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.ValidationResults, 1)
	assert.Equal(t, models.RowPass, resp.ValidationResults[0].Status)
	assert.Len(t, resp.LookupWarnings, 1)
	assert.Equal(t, 1, resp.Summary.Total)
	service.AssertExpectations(t)
}

func TestValidationHandlerRejectsMissingFields(t *testing.T) {
	body, err := json.Marshal(map[string]interface{}{
		"entityType": "StockItem",
		"mode":       "create",
	})
	require.NoError(t, err)

	service := new(mockValidationService)
	rec := httptest.NewRecorder()
	validationRouter(service, t).ServeHTTP(rec, authenticatedRequest("POST", "/validate", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "connectionId")
	service.AssertNotCalled(t, "Validate")
}

func TestValidationHandlerMapsUnknownConnection(t *testing.T) {
	service := new(mockValidationService)
	service.On("Validate", mock.Anything, "user-1", mock.Anything).Return(nil, services.ErrConnectionNotFound)

	rec := httptest.NewRecorder()
	validationRouter(service, t).ServeHTTP(rec, authenticatedRequest("POST", "/validate", validateBody(t)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
