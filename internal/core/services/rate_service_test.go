package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/core/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindCurrentRate(ctx context.Context, baseAsset, quoteAsset string, at time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, baseAsset, quoteAsset, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) FindRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) FindRateHistory(ctx context.Context, baseAsset, quoteAsset string, limit, offset int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, baseAsset, quoteAsset, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) ReplaceActiveRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) DeactivateRates(ctx context.Context, baseAsset, quoteAsset string, deactivatedBy string, at time.Time) (int64, error) {
	args := m.Called(ctx, baseAsset, quoteAsset, deactivatedBy, at)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockRateRepository
	service      portssvc.RateSvcFacade
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockRateRepository)
	suite.service = services.NewRateService(suite.mockRateRepo)
}

// --- Test Cases ---

func (suite *RateServiceTestSuite) TestUpsertRate_Success() {
	ctx := context.Background()
	updaterUserID := uuid.NewString()
	req := dto.UpsertRateRequest{
		BaseAsset:  "xrp",
		QuoteAsset: "krw",
		Rate:       decimal.RequireFromString("4197"),
		Spread:     decimal.RequireFromString("0.001"),
		Source:     "oracle",
	}

	suite.mockRateRepo.On("ReplaceActiveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()

	rate, err := suite.service.UpsertRate(ctx, req, updaterUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.NotEmpty(rate.RateID)
	suite.Equal("XRP", rate.BaseAsset)
	suite.Equal("KRW", rate.QuoteAsset)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("4197")))
	suite.True(rate.BidRate.Equal(decimal.RequireFromString("4192.803")))
	suite.True(rate.AskRate.Equal(decimal.RequireFromString("4201.197")))
	suite.True(rate.IsActive)
	suite.Equal("oracle", rate.Source)
	suite.Equal(updaterUserID, rate.CreatedBy)

	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestUpsertRate_DefaultsSource() {
	ctx := context.Background()
	req := dto.UpsertRateRequest{
		BaseAsset:  "XRP",
		QuoteAsset: "KRW",
		Rate:       decimal.NewFromInt(4200),
	}

	suite.mockRateRepo.On("ReplaceActiveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()

	rate, err := suite.service.UpsertRate(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("manual", rate.Source)
	// zero spread collapses bid and ask onto the mid rate
	suite.True(rate.BidRate.Equal(rate.Rate))
	suite.True(rate.AskRate.Equal(rate.Rate))
}

func (suite *RateServiceTestSuite) TestUpsertRate_InvalidRate() {
	ctx := context.Background()
	req := dto.UpsertRateRequest{
		BaseAsset:  "XRP",
		QuoteAsset: "KRW",
		Rate:       decimal.Zero,
	}

	rate, err := suite.service.UpsertRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "must be positive")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "ReplaceActiveRate")
}

func (suite *RateServiceTestSuite) TestUpsertRate_InvalidSpread() {
	ctx := context.Background()
	req := dto.UpsertRateRequest{
		BaseAsset:  "XRP",
		QuoteAsset: "KRW",
		Rate:       decimal.NewFromInt(4200),
		Spread:     decimal.NewFromInt(1),
	}

	rate, err := suite.service.UpsertRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "spread")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "ReplaceActiveRate")
}

func (suite *RateServiceTestSuite) TestUpsertRate_SamePair() {
	ctx := context.Background()
	req := dto.UpsertRateRequest{
		BaseAsset:  "XRP",
		QuoteAsset: "XRP",
		Rate:       decimal.NewFromInt(1),
	}

	rate, err := suite.service.UpsertRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cannot be the same")
}

func (suite *RateServiceTestSuite) TestGetCurrentRate_Success() {
	ctx := context.Background()
	expected := &domain.ExchangeRate{
		RateID:     uuid.NewString(),
		BaseAsset:  "XRP",
		QuoteAsset: "KRW",
		Rate:       decimal.NewFromInt(4200),
	}

	suite.mockRateRepo.On("FindCurrentRate", ctx, "XRP", "KRW", mock.AnythingOfType("time.Time")).Return(expected, nil).Once()

	rate, err := suite.service.GetCurrentRate(ctx, "xrp", "krw")

	suite.Require().NoError(err)
	suite.Equal(expected, rate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetCurrentRate_NotFound() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindCurrentRate", ctx, "XRP", "KRW", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.NewNotFoundError("no active rate for XRP/KRW")).Once()

	rate, err := suite.service.GetCurrentRate(ctx, "XRP", "KRW")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetCurrentRate_MissingAsset() {
	ctx := context.Background()

	rate, err := suite.service.GetCurrentRate(ctx, "", "KRW")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
}

func (suite *RateServiceTestSuite) TestListRateHistory_ClampsLimit() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindRateHistory", ctx, "XRP", "KRW", 100, 0).Return([]domain.ExchangeRate{}, nil).Once()

	_, err := suite.service.ListRateHistory(ctx, "XRP", "KRW", 1000, -5)

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestDeactivateRates_Success() {
	ctx := context.Background()
	updaterUserID := uuid.NewString()

	suite.mockRateRepo.On("DeactivateRates", ctx, "XRP", "KRW", updaterUserID, mock.AnythingOfType("time.Time")).
		Return(int64(2), nil).Once()

	count, err := suite.service.DeactivateRates(ctx, "xrp", "krw", updaterUserID)

	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func TestNewRateService(t *testing.T) {
	mockRateRepo := new(MockRateRepository)

	service := services.NewRateService(mockRateRepo)

	assert.NotNil(t, service)
	var _ portssvc.RateSvcFacade = service
}

// --- Run Suite ---
func TestRateService(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
