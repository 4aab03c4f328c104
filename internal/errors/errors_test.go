package errors

import (
	stderrors "errors"
	"io"
	"testing"
)

func TestUnknownCode(t *testing.T) {
	err := UnknownCode("methode_saisie_u", 42)
	if err.Type != TypeUnknownEnumerationCode {
		t.Errorf("type = %s", err.Type)
	}
	if err.Message != "unknown methode_saisie_u code: 42" {
		t.Errorf("message = %q", err.Message)
	}
}

func TestParsingKeepsCause(t *testing.T) {
	err := Parsing("invalid dwelling document", io.ErrUnexpectedEOF)
	if !IsType(err, TypeParsing) {
		t.Errorf("type = %s", TypeOf(err))
	}
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause must unwrap")
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(io.EOF); got != TypeInternal {
		t.Errorf("foreign errors are internal, got %s", got)
	}
	if got := TypeOf(Input("x").WithContext("dwelling", "a")); got != TypeInput {
		t.Errorf("got %s", got)
	}
}
