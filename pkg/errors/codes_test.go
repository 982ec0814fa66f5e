package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 422},
		{ErrCodeFetchFailed, 502},
		{ErrCodeProjectNotFound, 404},
		{ErrCodeStageInvalid, 400},
		{ErrCodeInvalidCredentials, 401},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeFieldNotEditable))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeFetchFailed))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "PLT", ModuleForCode(ErrCodeFetchFailed))
	assert.Equal(t, "PRJ", ModuleForCode(ErrCodeProjectNotFound))
	assert.Equal(t, "TRX", ModuleForCode(ErrCodeTransactionNotFound))
	assert.Equal(t, "IMP", ModuleForCode(ErrCodeProjectionRangeInvalid))
	assert.Equal(t, "AUTH", ModuleForCode(ErrCodeTokenExpired))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, re, string(code))
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing message for %s", code)
	}
	for code := range ErrorCodeMessage {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "missing status for %s", code)
	}
}

//Personal.AI order the ending
