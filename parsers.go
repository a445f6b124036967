package anticaptcha

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// envelope is the error part every API response carries.
type envelope struct {
	ErrorID          *int      `json:"errorId"`
	ErrorCode        ErrorCode `json:"errorCode"`
	ErrorDescription string    `json:"errorDescription"`
}

// parseEnvelope checks the errorId of a response body and, on success,
// decodes the body into out (which may be nil).
func parseEnvelope(method string, data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, method, err)
	}
	if env.ErrorID == nil {
		return fmt.Errorf("%w: %s: missing errorId", ErrMalformedResponse, method)
	}
	if *env.ErrorID != 0 {
		return env.apiError(method)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, method, err)
	}
	return nil
}

// apiError converts a failure envelope. A non-zero errorId must come with a code.
func (e *envelope) apiError(method string) error {
	if e.ErrorCode == "" {
		return fmt.Errorf("%w: %s: errorId %d without errorCode", ErrMalformedResponse, method, *e.ErrorID)
	}
	if !e.ErrorCode.Known() {
		slog.Warn("anticaptcha: undocumented error code",
			slog.String("method", method),
			slog.Int("errorId", *e.ErrorID),
			slog.String("errorCode", string(e.ErrorCode)))
	}
	desc := e.ErrorDescription
	if desc == "" {
		desc = e.ErrorCode.Describe()
	}
	return &APIError{ID: *e.ErrorID, Code: e.ErrorCode, Description: desc}
}

// parseCreateTask extracts the taskId from a createTask response.
func parseCreateTask(data []byte) (int, error) {
	var resp struct {
		TaskID *int `json:"taskId"`
	}
	if err := parseEnvelope(methodCreateTask, data, &resp); err != nil {
		return 0, err
	}
	if resp.TaskID == nil {
		return 0, fmt.Errorf("%w: createTask: missing taskId", ErrMalformedResponse)
	}
	return *resp.TaskID, nil
}

// parseBalance extracts the balance from a getBalance response.
func parseBalance(data []byte) (float64, error) {
	var resp struct {
		Balance *flexFloat `json:"balance"`
	}
	if err := parseEnvelope(methodGetBalance, data, &resp); err != nil {
		return 0, err
	}
	if resp.Balance == nil {
		return 0, fmt.Errorf("%w: getBalance: missing balance", ErrMalformedResponse)
	}
	return float64(*resp.Balance), nil
}

// parseQueueStats decodes a getQueueStats response.
func parseQueueStats(data []byte) (*QueueStats, error) {
	var stats QueueStats
	if err := parseEnvelope(methodGetQueueStats, data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type resultWire struct {
	Status     TaskStatus      `json:"status"`
	Solution   json.RawMessage `json:"solution"`
	Cost       flexFloat       `json:"cost"`
	IP         string          `json:"ip"`
	CreateTime int64           `json:"createTime"`
	EndTime    int64           `json:"endTime"`
	SolveCount flexInt         `json:"solveCount"`
}

// parseTaskResult decodes a getTaskResult response. A processing result is
// returned with only TaskID and Status set.
func parseTaskResult(taskID int, data []byte) (*TaskResult[json.RawMessage], error) {
	var w resultWire
	if err := parseEnvelope(methodGetTaskResult, data, &w); err != nil {
		return nil, err
	}

	switch w.Status {
	case StatusProcessing:
		return &TaskResult[json.RawMessage]{TaskID: taskID, Status: StatusProcessing}, nil
	case StatusReady:
	default:
		return nil, fmt.Errorf("%w: getTaskResult: unexpected status %q", ErrMalformedResponse, w.Status)
	}

	if len(w.Solution) == 0 || bytes.Equal(w.Solution, []byte("null")) {
		return nil, fmt.Errorf("%w: getTaskResult: ready without solution", ErrMalformedResponse)
	}

	return &TaskResult[json.RawMessage]{
		TaskID:     taskID,
		Status:     StatusReady,
		Solution:   w.Solution,
		Cost:       float64(w.Cost),
		IP:         w.IP,
		CreateTime: unixTime(w.CreateTime),
		EndTime:    unixTime(w.EndTime),
		SolveCount: int(w.SolveCount),
	}, nil
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// flexFloat accepts a JSON number or a numeric string ("0.000700").
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s, err := unquoteNumber(b)
	if err != nil || s == "" {
		*f = 0
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("number %s: %w", b, err)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON integer or a numeric string ("1").
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s, err := unquoteNumber(b)
	if err != nil || s == "" {
		*n = 0
		return err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("integer %s: %w", b, err)
	}
	*n = flexInt(v)
	return nil
}

// unquoteNumber strips string quotes; null and "" yield "".
func unquoteNumber(b []byte) (string, error) {
	if bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(b), nil
}
