package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeNotNestable, "cell (%d,%d) is not nestable", 3, 4)
	want := "NOT_NESTABLE: cell (3,4) is not nestable"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeMalformedDataset, cause, "decoding payload")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if got := err.Error(); got != "MALFORMED_DATASET: decoding payload: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesCodeThroughChain(t *testing.T) {
	inner := New(ErrCodeMarkerNotFound, "marker <<#2#>> missing")
	outer := fmt.Errorf("leave failed: %w", inner)

	if !Is(outer, ErrCodeMarkerNotFound) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeNotNested) {
		t.Error("Is matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeMarkerNotFound) {
		t.Error("Is should not match plain errors")
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeNotNested, "grid has no wrapper")
	if GetCode(err) != ErrCodeNotNested {
		t.Errorf("GetCode = %q", GetCode(err))
	}
	if UserMessage(err) != "grid has no wrapper" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
	plain := stderrors.New("plain failure")
	if GetCode(plain) != "" {
		t.Errorf("GetCode(plain) = %q, want empty", GetCode(plain))
	}
	if UserMessage(plain) != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestIsNoOp(t *testing.T) {
	if !IsNoOp(New(ErrCodeNotNestable, "x")) {
		t.Error("NOT_NESTABLE should be a no-op")
	}
	if !IsNoOp(New(ErrCodeNotNested, "x")) {
		t.Error("NOT_NESTED should be a no-op")
	}
	if IsNoOp(New(ErrCodeMarkerNotFound, "x")) {
		t.Error("MARKER_NOT_FOUND is a real failure, not a no-op")
	}
	if IsNoOp(nil) {
		t.Error("nil is not a no-op error")
	}
}

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate(1, 1); err != nil {
		t.Errorf("ValidateCoordinate(1,1) = %v", err)
	}
	if err := ValidateCoordinate(0, 1); !Is(err, ErrCodeInvalidCoordinate) {
		t.Errorf("ValidateCoordinate(0,1) = %v, want INVALID_COORDINATE", err)
	}
	if err := ValidateCoordinate(1, -2); !Is(err, ErrCodeInvalidCoordinate) {
		t.Errorf("ValidateCoordinate(1,-2) = %v, want INVALID_COORDINATE", err)
	}
}

func TestValidateMargin(t *testing.T) {
	if err := ValidateMargin(2); err != nil {
		t.Errorf("ValidateMargin(2) = %v", err)
	}
	if err := ValidateMargin(0); !Is(err, ErrCodeInvalidMargin) {
		t.Errorf("ValidateMargin(0) = %v, want INVALID_MARGIN", err)
	}
}
