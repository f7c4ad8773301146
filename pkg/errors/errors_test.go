package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("load cart: %w", New(CodeNotFound, "cart not found"))
	if !HasCode(err, CodeNotFound) {
		t.Fatalf("expected wrapped not found code")
	}
	if HasCode(err, CodeValidation) {
		t.Fatalf("unexpected validation code match")
	}
	if HasCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("dial tcp: refused"), "fetch products")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two links in chain, got %v", dump.Chain)
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeNotFound, "no entry")
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpMarksRetryableAndDefaultsToInternal(t *testing.T) {
	dump := Dump(Wrap(CodeDependency, stdErrors.New("timeout"), "geocode"))
	if !dump.Retryable {
		t.Fatalf("dependency errors should be retryable")
	}
	plain := Dump(stdErrors.New("boom"))
	if plain.Code != CodeInternal {
		t.Fatalf("plain errors should dump as internal, got %s", plain.Code)
	}
	if plain.PG != nil {
		t.Fatalf("unexpected pg details %+v", plain.PG)
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "checkout_handoffs_pkey", TableName: "checkout_handoffs"}
	dump := Dump(fmt.Errorf("insert: %w", pgxErr))
	if dump.PG == nil || dump.PG.Code != "23505" || dump.PG.Constraint != "checkout_handoffs_pkey" {
		t.Fatalf("unexpected pgx details %+v", dump.PG)
	}

	pqErr := &pq.Error{Code: "23503", Table: "checkout_handoffs", Message: "violates foreign key"}
	dump = Dump(Wrap(CodeInternal, pqErr, "insert handoff"))
	if dump.PG == nil || dump.PG.Code != "23503" || dump.PG.Table != "checkout_handoffs" {
		t.Fatalf("unexpected pq details %+v", dump.PG)
	}

	fields := dump.LogFields()
	if fields["pg_code"] != "23503" || fields["error_code"] != CodeInternal {
		t.Fatalf("unexpected log fields %v", fields)
	}
}
