package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/core/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testAdminAddr = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testUserAddr  = "rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYa"
	testDestAddr  = "rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRa"
)

// --- Mock AccessReaderSvc ---
type MockAccessReaderSvc struct {
	mock.Mock
}

func (m *MockAccessReaderSvc) CheckPermission(ctx context.Context, address string) (*domain.PermissionDecision, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PermissionDecision), args.Error(1)
}

func (m *MockAccessReaderSvc) GetActiveDomain(ctx context.Context) (*domain.PermissionDomain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PermissionDomain), args.Error(1)
}

func (m *MockAccessReaderSvc) GetDomainByID(ctx context.Context, domainID string) (*domain.PermissionDomain, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PermissionDomain), args.Error(1)
}

func (m *MockAccessReaderSvc) ListDomains(ctx context.Context, limit, offset int) ([]domain.PermissionDomain, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PermissionDomain), args.Error(1)
}

// --- Mock RateReaderSvc ---
type MockRateReaderSvc struct {
	mock.Mock
}

func (m *MockRateReaderSvc) GetCurrentRate(ctx context.Context, baseAsset, quoteAsset string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, baseAsset, quoteAsset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateReaderSvc) GetRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateReaderSvc) ListRateHistory(ctx context.Context, baseAsset, quoteAsset string, limit, offset int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, baseAsset, quoteAsset, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock FeeReaderSvc ---
type MockFeeReaderSvc struct {
	mock.Mock
}

func (m *MockFeeReaderSvc) GetActiveFeeConfig(ctx context.Context, swapType domain.SwapType) (*domain.FeeConfig, error) {
	args := m.Called(ctx, swapType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeConfig), args.Error(1)
}

func (m *MockFeeReaderSvc) GetFeeConfigByID(ctx context.Context, feeConfigID string) (*domain.FeeConfig, error) {
	args := m.Called(ctx, feeConfigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeConfig), args.Error(1)
}

func (m *MockFeeReaderSvc) ListFeeConfigs(ctx context.Context, swapType *domain.SwapType, limit, offset int) ([]domain.FeeConfig, error) {
	args := m.Called(ctx, swapType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeConfig), args.Error(1)
}

func (m *MockFeeReaderSvc) CalculateFee(ctx context.Context, swapType domain.SwapType, amount decimal.Decimal) (*domain.FeeBreakdown, error) {
	args := m.Called(ctx, swapType, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeBreakdown), args.Error(1)
}

// --- Mock LedgerClient ---
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) SubmitPayment(ctx context.Context, payment ledger.Payment) (*ledger.SubmitResult, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SubmitResult), args.Error(1)
}

func (m *MockLedgerClient) GetAccountLines(ctx context.Context, address string) ([]domain.Balance, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Balance), args.Error(1)
}

func (m *MockLedgerClient) GetXRPBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerClient) CreateWallet(ctx context.Context) (*domain.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSwapResult(ctx context.Context, result domain.SwapResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Test Suite ---
type SwapServiceTestSuite struct {
	suite.Suite
	mockAccess    *MockAccessReaderSvc
	mockRates     *MockRateReaderSvc
	mockFees      *MockFeeReaderSvc
	mockLedger    *MockLedgerClient
	mockPublisher *MockPublisher
	service       portssvc.SwapSvcFacade
	user          *domain.User
}

func (suite *SwapServiceTestSuite) SetupTest() {
	suite.mockAccess = new(MockAccessReaderSvc)
	suite.mockRates = new(MockRateReaderSvc)
	suite.mockFees = new(MockFeeReaderSvc)
	suite.mockLedger = new(MockLedgerClient)
	suite.mockPublisher = new(MockPublisher)

	cfg := services.SwapConfig{
		AdminWallet:   domain.Wallet{Address: testAdminAddr, Seed: "sAdminSeed"},
		IOUCurrency:   "KRW",
		IssuerAddress: testAdminAddr,
		BaseAsset:     "XRP",
		QuoteAsset:    "KRW",
	}
	suite.service = services.NewSwapService(
		cfg,
		suite.mockAccess,
		suite.mockRates,
		suite.mockFees,
		suite.mockLedger,
		suite.mockPublisher,
		metrics.NewCollector(),
	)
	suite.user = &domain.User{
		UserID:        uuid.NewString(),
		Email:         "holder@example.com",
		Role:          domain.RoleUser,
		WalletAddress: testUserAddr,
		WalletSeed:    "sUserSeed",
	}
}

func (suite *SwapServiceTestSuite) allowAddress(address string) {
	suite.mockAccess.On("CheckPermission", mock.Anything, address).
		Return(&domain.PermissionDecision{Allowed: true, Reason: "address is whitelisted"}, nil).Once()
}

func (suite *SwapServiceTestSuite) expectFee(swapType domain.SwapType, gross, fee string) {
	grossD := decimal.RequireFromString(gross)
	feeD := decimal.RequireFromString(fee)
	rate := decimal.RequireFromString("0.003")
	suite.mockFees.On("CalculateFee", mock.Anything, swapType, grossD).
		Return(&domain.FeeBreakdown{
			GrossAmount: grossD,
			Fee:         feeD,
			NetAmount:   grossD.Sub(feeD),
			FeeType:     domain.FeePercentage,
			FeeRate:     &rate,
		}, nil).Once()
}

func (suite *SwapServiceTestSuite) expectRate() *domain.ExchangeRate {
	rate := domain.NewExchangeRate(
		uuid.NewString(), "XRP", "KRW",
		decimal.RequireFromString("4197"), decimal.RequireFromString("0.001"),
		"oracle", "admin", time.Now().Add(-time.Minute),
	)
	suite.mockRates.On("GetCurrentRate", mock.Anything, "XRP", "KRW").Return(&rate, nil).Once()
	return &rate
}

func (suite *SwapServiceTestSuite) expectPublish() {
	suite.mockPublisher.On("PublishSwapResult", mock.Anything, mock.AnythingOfType("domain.SwapResult")).
		Return(nil).Once()
}

// --- Quote Tests ---

func (suite *SwapServiceTestSuite) TestQuoteSwap_XRPToIOU() {
	ctx := context.Background()
	suite.expectFee(domain.SwapTypeXRPToIOU, "100", "0.3")
	suite.expectRate()

	quote, err := suite.service.QuoteSwap(ctx, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Require().NotNil(quote)
	suite.True(quote.GrossAmount.Equal(decimal.NewFromInt(100)))
	suite.True(quote.Fee.Equal(decimal.RequireFromString("0.3")))
	suite.True(quote.NetAmount.Equal(decimal.RequireFromString("99.7")))
	// net 99.7 XRP at the bid rate 4192.803 KRW/XRP
	suite.True(quote.PayAmount.Equal(decimal.RequireFromString("418022.4591")))
	suite.Equal("KRW", quote.PayCurrency)
	suite.Require().NotNil(quote.RateUsed)
	suite.False(quote.FeeDefaulted)
	suite.mockFees.AssertExpectations(suite.T())
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestQuoteSwap_IOUToXRP() {
	ctx := context.Background()
	suite.expectFee(domain.SwapTypeIOUToXRP, "419700", "1259.1")
	rate := suite.expectRate()

	quote, err := suite.service.QuoteSwap(ctx, dto.SwapRequest{SwapType: "IOU_TO_XRP", Amount: decimal.NewFromInt(419700)})

	suite.Require().NoError(err)
	suite.Require().NotNil(quote)
	// net KRW divided by the ask rate buys back XRP
	expectedPay := decimal.RequireFromString("418440.9").Div(rate.AskRate)
	suite.True(quote.PayAmount.Equal(expectedPay))
	suite.Equal("XRP", quote.PayCurrency)
}

func (suite *SwapServiceTestSuite) TestQuoteSwap_TransferSkipsRate() {
	ctx := context.Background()
	suite.expectFee(domain.SwapTypeTransfer, "1000", "3")

	quote, err := suite.service.QuoteSwap(ctx, dto.SwapRequest{
		SwapType:           "TRANSFER",
		Amount:             decimal.NewFromInt(1000),
		DestinationAddress: testDestAddr,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(quote)
	suite.True(quote.PayAmount.Equal(decimal.RequireFromString("997")))
	suite.Equal("KRW", quote.PayCurrency)
	suite.Nil(quote.RateUsed)
	suite.mockRates.AssertNotCalled(suite.T(), "GetCurrentRate")
}

func (suite *SwapServiceTestSuite) TestQuoteSwap_InvalidAmount() {
	ctx := context.Background()

	quote, err := suite.service.QuoteSwap(ctx, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.Zero})

	suite.Require().Error(err)
	suite.Nil(quote)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Execute Tests ---

func (suite *SwapServiceTestSuite) TestExecuteSwap_XRPToIOU_Succeeds() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.expectFee(domain.SwapTypeXRPToIOU, "100", "0.3")
	suite.expectRate()
	suite.expectPublish()

	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(p ledger.Payment) bool {
		return p.Amount.IsNative() && p.Sender.Address == testUserAddr && p.Destination == testAdminAddr
	})).Return(&ledger.SubmitResult{TxHash: "HASH1", EngineResult: "tesSUCCESS", Accepted: true}, nil).Once()
	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(p ledger.Payment) bool {
		return p.Amount.Currency == "KRW" && p.Sender.Address == testAdminAddr && p.Destination == testUserAddr
	})).Return(&ledger.SubmitResult{TxHash: "HASH2", EngineResult: "tesSUCCESS", Accepted: true}, nil).Once()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.SwapTypeXRPToIOU, result.SwapType)
	suite.Equal(domain.SwapSucceeded, result.Status)
	suite.Equal(domain.StageSettled, result.Stage)
	suite.True(result.Settled())
	suite.Require().Len(result.Legs, 2)
	suite.Equal("collect-xrp", result.Legs[0].Purpose)
	suite.Equal("HASH1", result.Legs[0].TxHash)
	suite.Equal("issue-iou", result.Legs[1].Purpose)
	suite.Equal("HASH2", result.Legs[1].TxHash)
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_PermissionDenied() {
	ctx := context.Background()
	suite.mockAccess.On("CheckPermission", mock.Anything, testUserAddr).
		Return(&domain.PermissionDecision{Allowed: false, Reason: "address is not whitelisted"}, nil).Once()
	suite.expectFee(domain.SwapTypeXRPToIOU, "100", "0.3")
	suite.expectRate()
	suite.expectPublish()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.SwapFailed, result.Status)
	suite.Equal(domain.StageCheckAccess, result.Stage)
	suite.Equal(domain.SwapErrPermissionDenied, result.ErrorCode)
	suite.Equal("address is not whitelisted", result.Reason)
	suite.Empty(result.Legs)
	suite.mockLedger.AssertNotCalled(suite.T(), "SubmitPayment")
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_QuoteUnavailable() {
	ctx := context.Background()
	suite.mockAccess.On("CheckPermission", mock.Anything, testUserAddr).
		Return(&domain.PermissionDecision{Allowed: true}, nil).Maybe()
	suite.mockFees.On("CalculateFee", mock.Anything, domain.SwapTypeXRPToIOU, mock.Anything).
		Return(&domain.FeeBreakdown{
			GrossAmount: decimal.NewFromInt(100),
			Fee:         decimal.Zero,
			NetAmount:   decimal.NewFromInt(100),
			FeeType:     domain.FeeFixed,
		}, nil).Maybe()
	suite.mockRates.On("GetCurrentRate", mock.Anything, "XRP", "KRW").
		Return(nil, apperrors.NewNotFoundError("no active rate for XRP/KRW")).Once()
	suite.expectPublish()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.SwapFailed, result.Status)
	suite.Equal(domain.StageQuote, result.Stage)
	suite.Equal(domain.SwapErrQuoteUnavailable, result.ErrorCode)
	suite.mockLedger.AssertNotCalled(suite.T(), "SubmitPayment")
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_FirstLegFails() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.expectFee(domain.SwapTypeXRPToIOU, "100", "0.3")
	suite.expectRate()
	suite.expectPublish()

	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.AnythingOfType("ledger.Payment")).
		Return(nil, apperrors.NewLedgerError("tecUNFUNDED_PAYMENT", "insufficient XRP balance")).Once()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.SwapFailed, result.Status)
	suite.Equal(domain.StageLegOne, result.Stage)
	suite.Equal(domain.SwapErrLedger, result.ErrorCode)
	suite.Require().Len(result.Legs, 1)
	suite.False(result.Legs[0].Succeeded)
	suite.Equal("tecUNFUNDED_PAYMENT", result.Legs[0].ErrorCode)
	suite.False(result.NeedsReconciliation())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_SecondLegFails_Partial() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.expectFee(domain.SwapTypeXRPToIOU, "100", "0.3")
	suite.expectRate()
	suite.expectPublish()

	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(p ledger.Payment) bool {
		return p.Amount.IsNative()
	})).Return(&ledger.SubmitResult{TxHash: "HASH1", EngineResult: "tesSUCCESS", Accepted: true}, nil).Once()
	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(p ledger.Payment) bool {
		return !p.Amount.IsNative()
	})).Return(nil, apperrors.NewLedgerError("tecPATH_DRY", "no trust line path")).Once()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.SwapPartial, result.Status)
	suite.Equal(domain.StageLegTwo, result.Stage)
	suite.Equal(domain.SwapErrPartialFailure, result.ErrorCode)
	suite.True(result.NeedsReconciliation())
	suite.Require().Len(result.Legs, 2)
	suite.True(result.Legs[0].Succeeded)
	suite.False(result.Legs[1].Succeeded)
	suite.Equal("tecPATH_DRY", result.Legs[1].ErrorCode)
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_Transfer_CollectsFeeLeg() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.allowAddress(testDestAddr)
	suite.expectFee(domain.SwapTypeTransfer, "1000", "3")
	suite.expectPublish()

	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(p ledger.Payment) bool {
		return p.Destination == testDestAddr && p.Amount.Value.Equal(decimal.RequireFromString("997"))
	})).Return(&ledger.SubmitResult{TxHash: "HASH1", EngineResult: "tesSUCCESS", Accepted: true}, nil).Once()
	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(p ledger.Payment) bool {
		return p.Destination == testAdminAddr && p.Amount.Value.Equal(decimal.RequireFromString("3"))
	})).Return(&ledger.SubmitResult{TxHash: "HASH2", EngineResult: "tesSUCCESS", Accepted: true}, nil).Once()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{
		SwapType:           "TRANSFER",
		Amount:             decimal.NewFromInt(1000),
		DestinationAddress: testDestAddr,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.SwapSucceeded, result.Status)
	suite.Require().Len(result.Legs, 2)
	suite.Equal("transfer-iou", result.Legs[0].Purpose)
	suite.Equal("collect-fee", result.Legs[1].Purpose)
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockRates.AssertNotCalled(suite.T(), "GetCurrentRate")
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_Transfer_ZeroFeeSkipsFeeLeg() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.allowAddress(testDestAddr)
	suite.mockFees.On("CalculateFee", mock.Anything, domain.SwapTypeTransfer, decimal.NewFromInt(50)).
		Return(&domain.FeeBreakdown{
			GrossAmount: decimal.NewFromInt(50),
			Fee:         decimal.Zero,
			NetAmount:   decimal.NewFromInt(50),
			FeeType:     domain.FeeFixed,
		}, nil).Once()
	suite.expectPublish()

	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.AnythingOfType("ledger.Payment")).
		Return(&ledger.SubmitResult{TxHash: "HASH1", EngineResult: "tesSUCCESS", Accepted: true}, nil).Once()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{
		SwapType:           "TRANSFER",
		Amount:             decimal.NewFromInt(50),
		DestinationAddress: testDestAddr,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.SwapSucceeded, result.Status)
	suite.Require().Len(result.Legs, 1)
	suite.Equal("transfer-iou", result.Legs[0].Purpose)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_Transfer_DeniedDestination() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.mockAccess.On("CheckPermission", mock.Anything, testDestAddr).
		Return(&domain.PermissionDecision{Allowed: false, Reason: "address is blacklisted: fraud"}, nil).Once()
	suite.expectFee(domain.SwapTypeTransfer, "1000", "3")
	suite.expectPublish()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{
		SwapType:           "TRANSFER",
		Amount:             decimal.NewFromInt(1000),
		DestinationAddress: testDestAddr,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.SwapFailed, result.Status)
	suite.Equal(domain.SwapErrPermissionDenied, result.ErrorCode)
	suite.Contains(result.Reason, "destination")
	suite.Contains(result.Reason, "blacklisted")
	suite.mockLedger.AssertNotCalled(suite.T(), "SubmitPayment")
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_Transfer_MissingDestination() {
	ctx := context.Background()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{
		SwapType: "TRANSFER",
		Amount:   decimal.NewFromInt(1000),
	})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishSwapResult")
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_Transfer_SelfDestination() {
	ctx := context.Background()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{
		SwapType:           "TRANSFER",
		Amount:             decimal.NewFromInt(1000),
		DestinationAddress: testUserAddr,
	})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "own wallet")
}

func (suite *SwapServiceTestSuite) TestExecuteSwap_PublisherFailureDoesNotFailSwap() {
	ctx := context.Background()
	suite.allowAddress(testUserAddr)
	suite.expectFee(domain.SwapTypeXRPToIOU, "100", "0.3")
	suite.expectRate()
	suite.mockPublisher.On("PublishSwapResult", mock.Anything, mock.AnythingOfType("domain.SwapResult")).
		Return(context.DeadlineExceeded).Once()

	suite.mockLedger.On("SubmitPayment", mock.Anything, mock.AnythingOfType("ledger.Payment")).
		Return(&ledger.SubmitResult{TxHash: "HASH", EngineResult: "tesSUCCESS", Accepted: true}, nil).Twice()

	result, err := suite.service.ExecuteSwap(ctx, suite.user, dto.SwapRequest{SwapType: "XRP_TO_IOU", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.Equal(domain.SwapSucceeded, result.Status)
	suite.mockPublisher.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestSwapService(t *testing.T) {
	suite.Run(t, new(SwapServiceTestSuite))
}
