package core

import "errors"

// 稳定错误码，对边界层的契约，不可改动
const (
	CodeUserNotFound        = "userNotFound"
	CodeDuplicateFollow     = "duplicateFollow"
	CodeNotFollowing        = "notFollowing"
	CodeInvalidUser         = "invalidUser"
	CodeUserNotFollowing    = "userNotFollowing"
	CodeDuplicateCloseFriend = "duplicateCloseFriend"
	CodeNotCloseFriend      = "notCloseFriend"

	CodeInvalidPost        = "invalidPost"
	CodeDuplicateLike      = "duplicateLike"
	CodeNotLiked           = "notLiked"
	CodeInvalidCredentials = "invalidCredentials"
	CodeInvalidSignUp      = "invalidSignUp"
	CodeDuplicateUsername  = "duplicateUsername"
	CodeDuplicateEmail     = "duplicateEmail"
	CodeDuplicatePhone     = "duplicatePhone"
	CodeInvalidPassword    = "invalidPassword"
	CodeAlreadyTheSame     = "alreadyTheSame"
	CodeExpiredResetCode   = "expiredResetCode"
	CodeInvalidStory       = "invalidStory"
)

// ValidationError 预期内的校验失败（用户可见），携带 message + code；
// 查询结构、存储细节一律不得泄漏到 Message 里
type ValidationError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message, code string) *ValidationError {
	return &ValidationError{Message: message, Code: code}
}

// AsValidation 从错误链中取出校验失败；存储类错误不属于此类
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
