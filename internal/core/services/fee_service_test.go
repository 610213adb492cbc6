package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/core/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FeeRepository ---
type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) FindActiveFeeConfig(ctx context.Context, swapType domain.SwapType, at time.Time) (*domain.FeeConfig, error) {
	args := m.Called(ctx, swapType, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeConfig), args.Error(1)
}

func (m *MockFeeRepository) FindFeeConfigByID(ctx context.Context, feeConfigID string) (*domain.FeeConfig, error) {
	args := m.Called(ctx, feeConfigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeConfig), args.Error(1)
}

func (m *MockFeeRepository) FindFeeConfigs(ctx context.Context, swapType *domain.SwapType, limit, offset int) ([]domain.FeeConfig, error) {
	args := m.Called(ctx, swapType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeConfig), args.Error(1)
}

func (m *MockFeeRepository) ActivateFeeConfig(ctx context.Context, config domain.FeeConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockFeeRepository) DeactivateFeeConfigs(ctx context.Context, swapType domain.SwapType, deactivatedBy string, at time.Time) (int64, error) {
	args := m.Called(ctx, swapType, deactivatedBy, at)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type FeeServiceTestSuite struct {
	suite.Suite
	mockFeeRepo *MockFeeRepository
	service     portssvc.FeeSvcFacade
}

func (suite *FeeServiceTestSuite) SetupTest() {
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.service = services.NewFeeService(suite.mockFeeRepo)
}

func percentageConfig(swapType domain.SwapType, rate string) *domain.FeeConfig {
	return &domain.FeeConfig{
		FeeConfigID: uuid.NewString(),
		SwapType:    swapType,
		FeeType:     domain.FeePercentage,
		BaseFee:     decimal.RequireFromString(rate),
		IsActive:    true,
		ValidFrom:   time.Now().Add(-time.Hour),
	}
}

// --- Test Cases ---

func (suite *FeeServiceTestSuite) TestCalculateFee_UsesActiveConfig() {
	ctx := context.Background()
	config := percentageConfig(domain.SwapTypeXRPToIOU, "0.003")

	suite.mockFeeRepo.On("FindActiveFeeConfig", ctx, domain.SwapTypeXRPToIOU, mock.AnythingOfType("time.Time")).
		Return(config, nil).Once()

	breakdown, err := suite.service.CalculateFee(ctx, domain.SwapTypeXRPToIOU, decimal.NewFromInt(1000))

	suite.Require().NoError(err)
	suite.Require().NotNil(breakdown)
	suite.True(breakdown.Fee.Equal(decimal.NewFromInt(3)))
	suite.True(breakdown.NetAmount.Equal(decimal.NewFromInt(997)))
	suite.False(breakdown.Defaulted)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestCalculateFee_DefaultsWhenNoConfig() {
	ctx := context.Background()

	suite.mockFeeRepo.On("FindActiveFeeConfig", ctx, domain.SwapTypeIOUToXRP, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.NewNotFoundError("no active fee config")).Once()

	breakdown, err := suite.service.CalculateFee(ctx, domain.SwapTypeIOUToXRP, decimal.NewFromInt(1000))

	suite.Require().NoError(err)
	suite.Require().NotNil(breakdown)
	suite.True(breakdown.Defaulted)
	suite.True(breakdown.Fee.Equal(decimal.NewFromInt(1)))
	suite.True(breakdown.NetAmount.Equal(decimal.NewFromInt(999)))
	suite.Equal(domain.FeePercentage, breakdown.FeeType)
	suite.Require().NotNil(breakdown.FeeRate)
	suite.True(breakdown.FeeRate.Equal(services.DefaultFeeRate))
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestCalculateFee_StoreErrorPropagates() {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	suite.mockFeeRepo.On("FindActiveFeeConfig", ctx, domain.SwapTypeTransfer, mock.AnythingOfType("time.Time")).
		Return(nil, storeErr).Once()

	breakdown, err := suite.service.CalculateFee(ctx, domain.SwapTypeTransfer, decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.Nil(breakdown)
	suite.ErrorIs(err, storeErr)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestCalculateFee_InvalidAmount() {
	ctx := context.Background()

	breakdown, err := suite.service.CalculateFee(ctx, domain.SwapTypeTransfer, decimal.Zero)

	suite.Require().Error(err)
	suite.Nil(breakdown)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "FindActiveFeeConfig")
}

func (suite *FeeServiceTestSuite) TestCalculateFee_UnknownSwapType() {
	ctx := context.Background()

	breakdown, err := suite.service.CalculateFee(ctx, domain.SwapType("SIDEWAYS"), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.Nil(breakdown)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FeeServiceTestSuite) TestActivateFeeConfig_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateFeeConfigRequest{
		SwapType: "XRP_TO_IOU",
		FeeType:  "PERCENTAGE",
		BaseFee:  decimal.RequireFromString("0.005"),
	}

	suite.mockFeeRepo.On("ActivateFeeConfig", ctx, mock.AnythingOfType("domain.FeeConfig")).Return(nil).Once()

	config, err := suite.service.ActivateFeeConfig(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(config)
	suite.NotEmpty(config.FeeConfigID)
	suite.Equal(domain.SwapTypeXRPToIOU, config.SwapType)
	suite.True(config.IsActive)
	suite.Equal(creatorUserID, config.CreatedBy)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestActivateFeeConfig_TieredWithoutTiers() {
	ctx := context.Background()
	req := dto.CreateFeeConfigRequest{
		SwapType: "TRANSFER",
		FeeType:  "TIERED",
	}

	config, err := suite.service.ActivateFeeConfig(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(config)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "ActivateFeeConfig")
}

func (suite *FeeServiceTestSuite) TestDeactivateFeeConfigs_Success() {
	ctx := context.Background()
	updaterUserID := uuid.NewString()

	suite.mockFeeRepo.On("DeactivateFeeConfigs", ctx, domain.SwapTypeTransfer, updaterUserID, mock.AnythingOfType("time.Time")).
		Return(int64(1), nil).Once()

	count, err := suite.service.DeactivateFeeConfigs(ctx, domain.SwapTypeTransfer, updaterUserID)

	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestSimulateFee_Success() {
	ctx := context.Background()
	req := dto.SimulateFeeRequest{
		Config: dto.CreateFeeConfigRequest{
			SwapType: "TRANSFER",
			FeeType:  "PERCENTAGE",
			BaseFee:  decimal.RequireFromString("0.01"),
		},
		Amounts: []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(200)},
	}

	breakdowns, err := suite.service.SimulateFee(ctx, req)

	suite.Require().NoError(err)
	suite.Require().Len(breakdowns, 2)
	suite.True(breakdowns[0].Fee.Equal(decimal.NewFromInt(1)))
	suite.True(breakdowns[1].Fee.Equal(decimal.NewFromInt(2)))
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "ActivateFeeConfig")
}

func (suite *FeeServiceTestSuite) TestSimulateFee_NegativeAmount() {
	ctx := context.Background()
	req := dto.SimulateFeeRequest{
		Config: dto.CreateFeeConfigRequest{
			SwapType: "TRANSFER",
			FeeType:  "FIXED",
			BaseFee:  decimal.NewFromInt(5),
		},
		Amounts: []decimal.Decimal{decimal.NewFromInt(-1)},
	}

	breakdowns, err := suite.service.SimulateFee(ctx, req)

	suite.Require().Error(err)
	suite.Nil(breakdowns)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Suite ---
func TestFeeService(t *testing.T) {
	suite.Run(t, new(FeeServiceTestSuite))
}
