package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeOracleFailure, cause, "graphviz render failed")

	if err.Code != ErrCodeOracleFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOracleFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	expected := "ORACLE_FAILURE: graphviz render failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeUnsupportedShape, "document cannot contain content")

	if !Is(err, ErrCodeUnsupportedShape) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() = true, want false for non-matching code")
	}
	if Is(errors.New("plain"), ErrCodeInternal) {
		t.Error("Is() = true for plain error, want false")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeOracleFailure, "oracle returned no coordinates")
	outer := fmt.Errorf("layout diagram %s: %w", "demo", inner)

	if !Is(outer, ErrCodeOracleFailure) {
		t.Error("Is() = false through fmt.Errorf wrapping, want true")
	}
	if GetCode(outer) != ErrCodeOracleFailure {
		t.Errorf("GetCode() = %v, want ORACLE_FAILURE", GetCode(outer))
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeLayoutNotFound, "missing")); got != ErrCodeLayoutNotFound {
		t.Errorf("GetCode() = %v, want LAYOUT_NOT_FOUND", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidDiagram, "scope has no nodes")
	if got := UserMessage(err); got != "scope has no nodes" {
		t.Errorf("UserMessage() = %q, want %q", got, "scope has no nodes")
	}

	plain := errors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain error")
	}
}
