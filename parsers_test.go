package anticaptcha

import (
	"errors"
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		code    ErrorCode
	}{
		{"success", `{"errorId":0,"balance":1}`, nil, ""},
		{"vendor error", `{"errorId":2,"errorCode":"ERROR_NO_SLOT_AVAILABLE","errorDescription":"No idle workers"}`, nil, CodeNoSlotAvailable},
		{"unknown code still vendor error", `{"errorId":99,"errorCode":"ERROR_BRAND_NEW","errorDescription":"?"}`, nil, "ERROR_BRAND_NEW"},
		{"missing errorId", `{"balance":1}`, ErrMalformedResponse, ""},
		{"errorId without code", `{"errorId":4}`, ErrMalformedResponse, ""},
		{"invalid json", `{invalid`, ErrMalformedResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseEnvelope("getBalance", []byte(tt.body), nil)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.code != "":
				if !IsCode(err, tt.code) {
					t.Fatalf("err = %v, want code %s", err, tt.code)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseEnvelope_FillsDescription(t *testing.T) {
	err := parseEnvelope("createTask", []byte(`{"errorId":10,"errorCode":"ERROR_ZERO_BALANCE"}`), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Description != CodeZeroBalance.Describe() {
		t.Fatalf("description = %q", apiErr.Description)
	}
}

func TestParseTaskResult_Processing(t *testing.T) {
	res, err := parseTaskResult(5, []byte(`{"errorId":0,"status":"processing"}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusProcessing || res.TaskID != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestParseTaskResult_NumericEncodings(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		cost       float64
		solveCount int
	}{
		{"strings", `{"errorId":0,"status":"ready","solution":{"token":"t"},"cost":"0.001500","solveCount":"2"}`, 0.0015, 2},
		{"numbers", `{"errorId":0,"status":"ready","solution":{"token":"t"},"cost":0.0015,"solveCount":2}`, 0.0015, 2},
		{"absent", `{"errorId":0,"status":"ready","solution":{"token":"t"}}`, 0, 0},
		{"null and empty", `{"errorId":0,"status":"ready","solution":{"token":"t"},"cost":null,"solveCount":""}`, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseTaskResult(1, []byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if res.Cost != tt.cost {
				t.Fatalf("cost = %v, want %v", res.Cost, tt.cost)
			}
			if res.SolveCount != tt.solveCount {
				t.Fatalf("solveCount = %d, want %d", res.SolveCount, tt.solveCount)
			}
			if !res.CreateTime.IsZero() || res.Duration() != 0 {
				t.Fatal("expected zero timestamps")
			}
		})
	}
}

func TestParseTaskResult_BadCost(t *testing.T) {
	_, err := parseTaskResult(1, []byte(`{"errorId":0,"status":"ready","solution":{"token":"t"},"cost":"cheap"}`))
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestDecodeSolution(t *testing.T) {
	raw, err := parseTaskResult(9, []byte(`{"errorId":0,"status":"ready","solution":{"token":"abc|r=eu-west-1"},"cost":"0.002","ip":"1.2.3.4"}`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := decodeSolution[FunCaptchaSolution](raw)
	if err != nil {
		t.Fatal(err)
	}
	if res.Solution.Token != "abc|r=eu-west-1" || res.TaskID != 9 || res.IP != "1.2.3.4" {
		t.Fatalf("unexpected result %+v", res)
	}

	raw.Solution = []byte(`"not an object"`)
	if _, err := decodeSolution[FunCaptchaSolution](raw); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestParseCreateTask(t *testing.T) {
	id, err := parseCreateTask([]byte(`{"errorId":0,"taskId":2147483647}`))
	if err != nil {
		t.Fatal(err)
	}
	if id != 2147483647 {
		t.Fatalf("taskId = %d", id)
	}
}

func TestParseBalance_Missing(t *testing.T) {
	if _, err := parseBalance([]byte(`{"errorId":0}`)); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}
