package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/core/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "USD",
		Symbol:       "$",
		Name:         "US Dollar",
		Precision:    2,
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == req.CurrencyCode && c.Symbol == req.Symbol && c.Name == req.Name &&
			c.Precision == 2 && !c.IsLocal && c.CreatedBy == creatorUserID && c.LastUpdatedBy == creatorUserID
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(currency)
	suite.Equal(req.CurrencyCode, currency.CurrencyCode)
	suite.Equal(creatorUserID, currency.CreatedBy)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindLocalCurrency", mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_FirstLocal() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "BOB", Symbol: "Bs", Name: "Boliviano", Precision: 2, IsLocal: true}

	suite.mockRepo.On("FindLocalCurrency", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "BOB" && c.IsLocal
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.True(currency.IsLocal)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_SecondLocalRejected() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "ARS", Symbol: "$", Name: "Peso", IsLocal: true}

	suite.mockRepo.On("FindLocalCurrency", ctx).Return(&domain.Currency{CurrencyCode: "BOB", IsLocal: true}, nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "BOB")
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar"}

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(apperrors.ErrDuplicate).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_SaveError() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "ERR", Symbol: "E", Name: "Error Currency"}
	expectedErr := assert.AnError

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(expectedErr).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_Success() {
	ctx := context.Background()
	expectedCurrency := &domain.Currency{CurrencyCode: "USD"}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(expectedCurrency, nil).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "USD")

	suite.Require().NoError(err)
	suite.Equal(expectedCurrency, currency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindCurrencyByCode", ctx, "NTF").Return(nil, apperrors.ErrNotFound).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "NTF")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetLocalCurrency() {
	ctx := context.Background()
	local := &domain.Currency{CurrencyCode: "BOB", IsLocal: true}

	suite.mockRepo.On("FindLocalCurrency", ctx).Return(local, nil).Once()

	currency, err := suite.service.GetLocalCurrency(ctx)

	suite.Require().NoError(err)
	suite.Equal("BOB", currency.CurrencyCode)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_Success() {
	ctx := context.Background()
	expectedCurrencies := []domain.Currency{{CurrencyCode: "BOB"}, {CurrencyCode: "USD"}}

	suite.mockRepo.On("ListCurrencies", ctx).Return(expectedCurrencies, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Equal(expectedCurrencies, currencies)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_EmptyIsNotNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListCurrencies", ctx).Return(nil, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.NotNil(currencies)
	suite.Empty(currencies)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_RepoError() {
	ctx := context.Background()

	suite.mockRepo.On("ListCurrencies", ctx).Return(nil, assert.AnError).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().Error(err)
	suite.Nil(currencies)
	suite.ErrorIs(err, assert.AnError)
}

// --- Run Test Suite ---
func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
