package anticaptcha

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskType is the value of the task "type" field.
type TaskType string

const (
	TypeNoCaptchaProxyless   TaskType = "NoCaptchaTaskProxyless"
	TypeNoCaptcha            TaskType = "NoCaptchaTask"
	TypeRecaptchaV3Proxyless TaskType = "RecaptchaV3TaskProxyless"
	TypeImageToText          TaskType = "ImageToTextTask"
	TypeFunCaptcha           TaskType = "FunCaptchaTask"
	TypeFunCaptchaProxyless  TaskType = "FunCaptchaTaskProxyless"
)

// LanguagePool selects the worker pool a task is routed to.
type LanguagePool string

const (
	LanguageEnglish LanguagePool = "en"
	LanguageRussian LanguagePool = "rn" // Russia and neighbouring countries
)

// QueueID identifies a worker queue for GetQueueStats.
type QueueID int

const (
	QueueImageToTextEnglish  QueueID = 1
	QueueImageToTextRussian  QueueID = 2
	QueueRecaptchaNoCaptcha  QueueID = 5
	QueueRecaptchaProxyless  QueueID = 6
	QueueFunCaptcha          QueueID = 7
	QueueFunCaptchaProxyless QueueID = 10
)

// TaskStatus is the remote state of a task.
type TaskStatus string

const (
	StatusProcessing TaskStatus = "processing"
	StatusReady      TaskStatus = "ready"
)

// WorkerScore is the minimum reCAPTCHA v3 score a worker must reach.
type WorkerScore float64

const (
	ScoreLow    WorkerScore = 0.3
	ScoreMedium WorkerScore = 0.5
	ScoreHigh   WorkerScore = 0.9
)

func (s WorkerScore) valid() bool {
	return s == ScoreLow || s == ScoreMedium || s == ScoreHigh
}

// NumericRequirement constrains the characters of an image captcha answer.
type NumericRequirement int

const (
	NumericAny         NumericRequirement = 0
	NumericOnlyNumbers NumericRequirement = 1
	NumericLettersOnly NumericRequirement = 2
)

// TaskResult is a completed getTaskResult envelope. S is the solution shape of
// the task kind; GetTaskResult returns it undecoded as json.RawMessage.
type TaskResult[S any] struct {
	TaskID     int
	Status     TaskStatus
	Solution   S
	Cost       float64
	IP         string
	CreateTime time.Time
	EndTime    time.Time
	// SolveCount is the number of workers who tried to complete the task.
	SolveCount int
}

// Duration returns the time the service spent on the task.
func (r *TaskResult[S]) Duration() time.Duration {
	if r.CreateTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.CreateTime)
}

// decodeSolution converts a raw result into one with a typed solution.
func decodeSolution[S any](raw *TaskResult[json.RawMessage]) (*TaskResult[S], error) {
	res := &TaskResult[S]{
		TaskID:     raw.TaskID,
		Status:     raw.Status,
		Cost:       raw.Cost,
		IP:         raw.IP,
		CreateTime: raw.CreateTime,
		EndTime:    raw.EndTime,
		SolveCount: raw.SolveCount,
	}
	if err := json.Unmarshal(raw.Solution, &res.Solution); err != nil {
		return nil, fmt.Errorf("%w: solution: %w", ErrMalformedResponse, err)
	}
	return res, nil
}

// QueueStats is worker-pool telemetry for one queue.
type QueueStats struct {
	// Waiting is the number of idle workers online.
	Waiting int `json:"waiting"`
	// Load is the queue load in percent.
	Load float64 `json:"load"`
	// Bid is the average task cost in USD.
	Bid float64 `json:"bid"`
	// Speed is the average solve time in seconds.
	Speed float64 `json:"speed"`
	// Total is the number of workers online.
	Total int `json:"total"`
}
