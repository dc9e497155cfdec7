package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/httpapi"
)

type MockCurrentBalanceService struct {
	mock.Mock
}

func (m *MockCurrentBalanceService) AccountCurrentBalance(ctx context.Context, accountID uuid.UUID) (*balance.CurrentBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*balance.CurrentBalance), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	return r
}

func TestBalanceHandler_Get(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCurrentBalanceService)
		handler := NewBalanceHandler(logger, mockService)

		accountID := uuid.New()
		mockService.On("AccountCurrentBalance", mock.Anything, accountID).Return(&balance.CurrentBalance{
			AccountID:       accountID,
			CurrentBalance:  decimal.NewFromFloat(1234.567),
			DailyTransacted: decimal.NewFromFloat(89.125),
		}, nil)

		router := setupTestRouter()
		router.GET("/accounts/:accountId/balance", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse httpapi.Response
		err := json.Unmarshal(rr.Body.Bytes(), &topLevelResponse)
		require.NoError(t, err)
		require.NotNil(t, topLevelResponse.Data)

		dataBytes, err := json.Marshal(topLevelResponse.Data)
		require.NoError(t, err)
		var responseBody CurrentBalanceResponse
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.Equal(t, accountID.String(), responseBody.AccountID)
		assert.Equal(t, "1234.57", responseBody.CurrentBalance)
		assert.Equal(t, "89.12", responseBody.DailyTransacted) // half-even rounding

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidAccountID", func(t *testing.T) {
		mockService := new(MockCurrentBalanceService)
		handler := NewBalanceHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/accounts/:accountId/balance", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/not-a-uuid/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "AccountCurrentBalance")
	})

	t.Run("BalanceNotFound", func(t *testing.T) {
		mockService := new(MockCurrentBalanceService)
		handler := NewBalanceHandler(logger, mockService)

		accountID := uuid.New()
		mockService.On("AccountCurrentBalance", mock.Anything, accountID).
			Return(nil, balance.ErrBalanceNotFound{AccountID: accountID})

		router := setupTestRouter()
		router.GET("/accounts/:accountId/balance", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InternalError", func(t *testing.T) {
		mockService := new(MockCurrentBalanceService)
		handler := NewBalanceHandler(logger, mockService)

		accountID := uuid.New()
		mockService.On("AccountCurrentBalance", mock.Anything, accountID).
			Return(nil, errors.New("db down"))

		router := setupTestRouter()
		router.GET("/accounts/:accountId/balance", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}
