package anticaptcha

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeTable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		id        int
		known     bool
		retryable bool
	}{
		{CodeKeyDoesNotExist, 1, true, false},
		{CodeNoSlotAvailable, 2, true, true},
		{CodeZeroBalance, 10, true, false},
		{CodeCaptchaUnsolvable, 12, true, true},
		{CodeNoSuchCaptchaID, 16, true, true},
		{CodeProxyBanned, 28, true, false},
		{CodeRecaptchaTimeout, 30, true, true},
		{CodeFailedLoadingWidget, 52, true, true},
		{ErrorCode("ERROR_SOMETHING_NEW"), 0, false, false},
		{ErrorCode(""), 0, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Known(); got != tt.known {
				t.Fatalf("Known() = %v, want %v", got, tt.known)
			}
			if got := tt.code.ID(); got != tt.id {
				t.Fatalf("ID() = %d, want %d", got, tt.id)
			}
			if got := tt.code.Retryable(); got != tt.retryable {
				t.Fatalf("Retryable() = %v, want %v", got, tt.retryable)
			}
			if tt.known && tt.code.Describe() == "" {
				t.Fatal("known code without description")
			}
		})
	}
}

func TestErrorCodeIDsUnique(t *testing.T) {
	seen := make(map[int]ErrorCode, len(errorCodes))
	for code, info := range errorCodes {
		if prev, ok := seen[info.id]; ok {
			t.Fatalf("errorId %d used by %s and %s", info.id, prev, code)
		}
		seen[info.id] = code
	}
}

func TestAPIErrorMatching(t *testing.T) {
	err := fmt.Errorf("createTask ImageToTextTask: %w", &APIError{ID: 10, Code: CodeZeroBalance, Description: "no money"})

	if !errors.Is(err, &APIError{Code: CodeZeroBalance}) {
		t.Fatal("expected errors.Is to match on code")
	}
	if errors.Is(err, &APIError{Code: CodeIPBlocked}) {
		t.Fatal("expected no match for a different code")
	}
	if !IsCode(err, CodeZeroBalance) {
		t.Fatal("expected IsCode to match")
	}
	if IsCode(ErrTimeout, CodeZeroBalance) {
		t.Fatal("sentinel is not an APIError")
	}

	want := "anticaptcha: error 10 ERROR_ZERO_BALANCE: no money"
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Error() != want {
		t.Fatalf("Error() = %q, want %q", apiErr.Error(), want)
	}
}

func TestSentinelHierarchy(t *testing.T) {
	if !errors.Is(ErrMalformedResponse, ErrTransport) {
		t.Fatal("malformed responses must count as transport failures")
	}
	if errors.Is(ErrTimeout, ErrTransport) {
		t.Fatal("timeout must stay distinct from transport failures")
	}
}
