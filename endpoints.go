package anticaptcha

import "strings"

const defaultBaseURL = "https://api.anti-captcha.com"

// API method names. Each is POSTed to <BaseURL>/<method>.
const (
	methodCreateTask    = "createTask"
	methodGetTaskResult = "getTaskResult"
	methodGetBalance    = "getBalance"
	methodGetQueueStats = "getQueueStats"
)

// methodURL joins the API root and a method name.
func methodURL(base, method string) string {
	return strings.TrimSuffix(base, "/") + "/" + method
}
