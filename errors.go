package anticaptcha

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks HTTP failures, non-2xx responses and unreadable bodies.
	ErrTransport = errors.New("anticaptcha: transport failure")

	// ErrMalformedResponse marks a response envelope that is missing expected fields.
	// It wraps ErrTransport.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrTransport)

	// ErrTimeout is returned when polling exhausted its retry budget while the task
	// was still processing.
	ErrTimeout = errors.New("anticaptcha: task result polling timed out")

	// ErrInvalidTask is returned before any request is sent when a task payload
	// is missing required fields.
	ErrInvalidTask = errors.New("anticaptcha: invalid task")
)

// ErrorCode is a vendor error code reported in the errorCode field.
type ErrorCode string

const (
	CodeKeyDoesNotExist                  ErrorCode = "ERROR_KEY_DOES_NOT_EXIST"
	CodeNoSlotAvailable                  ErrorCode = "ERROR_NO_SLOT_AVAILABLE"
	CodeZeroCaptchaFilesize              ErrorCode = "ERROR_ZERO_CAPTCHA_FILESIZE"
	CodeTooBigCaptchaFilesize            ErrorCode = "ERROR_TOO_BIG_CAPTCHA_FILESIZE"
	CodeZeroBalance                      ErrorCode = "ERROR_ZERO_BALANCE"
	CodeIPNotAllowed                     ErrorCode = "ERROR_IP_NOT_ALLOWED"
	CodeCaptchaUnsolvable                ErrorCode = "ERROR_CAPTCHA_UNSOLVABLE"
	CodeBadDuplicates                    ErrorCode = "ERROR_BAD_DUPLICATES"
	CodeNoSuchMethod                     ErrorCode = "ERROR_NO_SUCH_METHOD"
	CodeImageTypeNotSupported            ErrorCode = "ERROR_IMAGE_TYPE_NOT_SUPPORTED"
	CodeNoSuchCaptchaID                  ErrorCode = "ERROR_NO_SUCH_CAPCHA_ID"
	CodeEmptyComment                     ErrorCode = "ERROR_EMPTY_COMMENT"
	CodeIPBlocked                        ErrorCode = "ERROR_IP_BLOCKED"
	CodeTaskAbsent                       ErrorCode = "ERROR_TASK_ABSENT"
	CodeTaskNotSupported                 ErrorCode = "ERROR_TASK_NOT_SUPPORTED"
	CodeIncorrectSessionData             ErrorCode = "ERROR_INCORRECT_SESSION_DATA"
	CodeProxyConnectRefused              ErrorCode = "ERROR_PROXY_CONNECT_REFUSED"
	CodeProxyConnectTimeout              ErrorCode = "ERROR_PROXY_CONNECT_TIMEOUT"
	CodeProxyReadTimeout                 ErrorCode = "ERROR_PROXY_READ_TIMEOUT"
	CodeProxyBanned                      ErrorCode = "ERROR_PROXY_BANNED"
	CodeProxyTransparent                 ErrorCode = "ERROR_PROXY_TRANSPARENT"
	CodeRecaptchaTimeout                 ErrorCode = "ERROR_RECAPTCHA_TIMEOUT"
	CodeRecaptchaInvalidSitekey          ErrorCode = "ERROR_RECAPTCHA_INVALID_SITEKEY"
	CodeRecaptchaInvalidDomain           ErrorCode = "ERROR_RECAPTCHA_INVALID_DOMAIN"
	CodeRecaptchaOldBrowser              ErrorCode = "ERROR_RECAPTCHA_OLD_BROWSER"
	CodeTokenExpired                     ErrorCode = "ERROR_TOKEN_EXPIRED"
	CodeProxyHasNoImageSupport           ErrorCode = "ERROR_PROXY_HAS_NO_IMAGE_SUPPORT"
	CodeProxyIncompatibleHTTPVersion     ErrorCode = "ERROR_PROXY_INCOMPATIBLE_HTTP_VERSION"
	CodeFactoryServerAPIConnectionFailed ErrorCode = "ERROR_FACTORY_SERVER_API_CONNECTION_FAILED"
	CodeFactoryServerBadJSON             ErrorCode = "ERROR_FACTORY_SERVER_BAD_JSON"
	CodeFactoryServerErrorIDMissing      ErrorCode = "ERROR_FACTORY_SERVER_ERRORID_MISSING"
	CodeFactoryServerErrorIDNotZero      ErrorCode = "ERROR_FACTORY_SERVER_ERRORID_NOT_ZERO"
	CodeFactoryMissingProperty           ErrorCode = "ERROR_FACTORY_MISSING_PROPERTY"
	CodeFactoryPropertyIncorrectFormat   ErrorCode = "ERROR_FACTORY_PROPERTY_INCORRECT_FORMAT"
	CodeFactoryAccessDenied              ErrorCode = "ERROR_FACTORY_ACCESS_DENIED"
	CodeFactoryServerOperationFailed     ErrorCode = "ERROR_FACTORY_SERVER_OPERATION_FAILED"
	CodeFactoryPlatformOperationFailed   ErrorCode = "ERROR_FACTORY_PLATFORM_OPERATION_FAILED"
	CodeFactoryProtocolBroken            ErrorCode = "ERROR_FACTORY_PROTOCOL_BROKEN"
	CodeFactoryTaskNotFound              ErrorCode = "ERROR_FACTORY_TASK_NOT_FOUND"
	CodeFactoryIsSandboxed               ErrorCode = "ERROR_FACTORY_IS_SANDBOXED"
	CodeProxyNotAuthorised               ErrorCode = "ERROR_PROXY_NOT_AUTHORISED"
	CodeFunCaptchaNotAllowed             ErrorCode = "ERROR_FUNCAPTCHA_NOT_ALLOWED"
	CodeInvisibleRecaptcha               ErrorCode = "ERROR_INVISIBLE_RECAPTCHA"
	CodeFailedLoadingWidget              ErrorCode = "ERROR_FAILED_LOADING_WIDGET"
)

type errorInfo struct {
	id   int
	desc string
}

// errorCodes maps every documented vendor code to its errorId and meaning.
var errorCodes = map[ErrorCode]errorInfo{
	CodeKeyDoesNotExist:                  {1, "account authorization key not found"},
	CodeNoSlotAvailable:                  {2, "no idle captcha workers available, retry later or raise the maximum bid"},
	CodeZeroCaptchaFilesize:              {3, "captcha image is smaller than 100 bytes"},
	CodeTooBigCaptchaFilesize:            {4, "captcha image is larger than 500,000 bytes"},
	CodeZeroBalance:                      {10, "account has zero or negative balance"},
	CodeIPNotAllowed:                     {11, "requests with this key are not allowed from this IP"},
	CodeCaptchaUnsolvable:                {12, "captcha could not be solved by 5 different workers"},
	CodeBadDuplicates:                    {13, "100% recognition failed for lack of guess attempts"},
	CodeNoSuchMethod:                     {14, "API method does not exist"},
	CodeImageTypeNotSupported:            {15, "image type not supported, only JPG, GIF and PNG are allowed"},
	CodeNoSuchCaptchaID:                  {16, "task does not exist or has expired (tasks are removed 5 minutes after upload)"},
	CodeEmptyComment:                     {20, "comment property is required"},
	CodeIPBlocked:                        {21, "IP blocked due to improper API use"},
	CodeTaskAbsent:                       {22, "task property is empty or not set"},
	CodeTaskNotSupported:                 {23, "task type is not supported"},
	CodeIncorrectSessionData:             {24, "required values for user emulation are missing"},
	CodeProxyConnectRefused:              {25, "could not connect to proxy, connection refused"},
	CodeProxyConnectTimeout:              {26, "could not connect to proxy, connection timeout"},
	CodeProxyReadTimeout:                 {27, "connection to proxy timed out"},
	CodeProxyBanned:                      {28, "proxy IP is banned by the target service"},
	CodeProxyTransparent:                 {29, "proxy must be non-transparent"},
	CodeRecaptchaTimeout:                 {30, "recaptcha task timed out, likely a slow proxy or Google server"},
	CodeRecaptchaInvalidSitekey:          {31, "recaptcha reported the site key is invalid"},
	CodeRecaptchaInvalidDomain:           {32, "recaptcha reported the domain is invalid for this site key"},
	CodeRecaptchaOldBrowser:              {33, "recaptcha rejected the browser user-agent"},
	CodeTokenExpired:                     {34, "provider token expired, retry with a new token"},
	CodeProxyHasNoImageSupport:           {35, "proxy does not support image transfer from Google servers"},
	CodeProxyIncompatibleHTTPVersion:     {36, "proxy does not support long GET requests or SSL"},
	CodeFactoryServerAPIConnectionFailed: {37, "could not connect to factory server API within 5 seconds"},
	CodeFactoryServerBadJSON:             {38, "incorrect factory server JSON response"},
	CodeFactoryServerErrorIDMissing:      {39, "factory server API did not send an errorId"},
	CodeFactoryServerErrorIDNotZero:      {40, "factory server API reported a non-zero errorId"},
	CodeFactoryMissingProperty:           {41, "required factory form values are missing"},
	CodeFactoryPropertyIncorrectFormat:   {42, "factory form value has the wrong type"},
	CodeFactoryAccessDenied:              {43, "factory control belongs to another account"},
	CodeFactoryServerOperationFailed:     {44, "factory server general error"},
	CodeFactoryPlatformOperationFailed:   {45, "factory platform general error"},
	CodeFactoryProtocolBroken:            {46, "factory task lifetime protocol broken"},
	CodeFactoryTaskNotFound:              {47, "task not found or not available for this operation"},
	CodeFactoryIsSandboxed:               {48, "factory is sandboxed"},
	CodeProxyNotAuthorised:               {49, "proxy login and password are incorrect"},
	CodeFunCaptchaNotAllowed:             {50, "funcaptcha proxyless tasks are not enabled for this account"},
	CodeInvisibleRecaptcha:               {51, "recaptcha was solved as a visible one instead of invisible"},
	CodeFailedLoadingWidget:              {52, "captcha widget failed to load in the worker browser"},
}

// Known reports whether c is a documented vendor code.
func (c ErrorCode) Known() bool {
	_, ok := errorCodes[c]
	return ok
}

// ID returns the documented errorId for c, or 0 for unknown codes.
func (c ErrorCode) ID() int {
	return errorCodes[c].id
}

// Describe returns the documented meaning of c, or "" for unknown codes.
func (c ErrorCode) Describe() string {
	return errorCodes[c].desc
}

// Retryable reports whether resubmitting the same task may succeed.
// Account, key and payload errors are not retryable.
func (c ErrorCode) Retryable() bool {
	switch c {
	case CodeNoSlotAvailable, CodeCaptchaUnsolvable, CodeRecaptchaTimeout,
		CodeProxyConnectTimeout, CodeProxyReadTimeout, CodeTokenExpired,
		CodeFailedLoadingWidget, CodeNoSuchCaptchaID:
		return true
	}
	return false
}

// APIError is a failure reported by the service in the response envelope.
type APIError struct {
	ID          int
	Code        ErrorCode
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anticaptcha: error %d %s: %s", e.ID, e.Code, e.Description)
}

// Is matches another *APIError with the same code, so errors.Is(err,
// &APIError{Code: CodeZeroBalance}) works.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// Known reports whether the error carries a documented vendor code.
func (e *APIError) Known() bool {
	return e.Code.Known()
}

// IsCode reports whether err is, or wraps, an *APIError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
