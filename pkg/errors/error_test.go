package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeDataNotFound, "no prices found for symbol %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("no prices found for symbol AAPL", err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMarketDataFetchFailed, "failed to fetch klines", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeMarketDataFetchFailed, err.Code)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodePriceFileError, cause, "failed to read %s", "prices.yaml")
	suite.Equal("failed to read prices.yaml", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal("[200] data not found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeBacktestRunFailed, "run failed", cause)
	suite.True(errors.Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidVersion, "bad version")
	suite.Equal(ErrCodeInvalidVersion, GetCode(err))

	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestGetCodeThroughWrapping() {
	inner := New(ErrCodeInsufficientData, "not enough data")
	outer := fmt.Errorf("reading price file: %w", inner)
	suite.Equal(ErrCodeInsufficientData, GetCode(outer))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeCallbackFailed, "callback failed")
	suite.True(HasCode(err, ErrCodeCallbackFailed))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}
