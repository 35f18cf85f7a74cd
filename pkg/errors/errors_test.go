package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		exposed   bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", exposed: true, detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", exposed: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", exposed: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", exposed: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, exposed: true, detailsOK: true},
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
		if meta.ExposeMessage != tt.exposed {
			t.Fatalf("code %s expected expose message %v got %v", tt.code, tt.exposed, meta.ExposeMessage)
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
	wrapped := Wrap(CodeDependency, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestRetryAfter(t *testing.T) {
	err := New(CodeRateLimit, "slow down").WithRetryAfter(10 * time.Minute)
	if err.RetryAfter() != 10*time.Minute {
		t.Fatalf("unexpected retry after %v", err.RetryAfter())
	}
	var nilErr *Error
	if nilErr.WithRetryAfter(time.Second) != nil || nilErr.RetryAfter() != 0 {
		t.Fatalf("nil error must stay nil")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeStateConflict, "no entry"))
	if got := As(err); got == nil || got.Code() != CodeStateConflict {
		t.Fatalf("As failed to return typed error")
	}
	if !Is(err, CodeStateConflict) {
		t.Fatalf("Is should match wrapped code")
	}
	if Is(err, CodeValidation) {
		t.Fatalf("Is should not match a different code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCollectsChainAndPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "storage_entries_pkey", TableName: "storage_entries", Message: "duplicate key"}
	err := Wrap(CodeDependency, fmt.Errorf("write entry: %w", pgErr), "save cart")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "storage_entries_pkey" || dump.PGTable != "storage_entries" {
		t.Fatalf("unexpected postgres fields %+v", dump)
	}
}

func TestDumpCollectsSQLiteCodes(t *testing.T) {
	liteErr := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}
	err := Wrap(CodeDependency, fmt.Errorf("upsert storage entry: %w", liteErr), "cart could not be saved")

	dump := Dump(err)
	if dump.SQLiteCode != int(sqlite3.ErrConstraint) || dump.SQLiteExtended != int(sqlite3.ErrConstraintPrimaryKey) {
		t.Fatalf("unexpected sqlite fields %+v", dump)
	}
	fields := dump.Fields()
	if fields["sqlite_code"] != int(sqlite3.ErrConstraint) {
		t.Fatalf("expected sqlite_code in fields, got %v", fields)
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("postgres fields must be omitted for sqlite errors: %v", fields)
	}
}

func TestDumpFieldsOmitsEmptyParts(t *testing.T) {
	fields := Dump(stdErrors.New("plain")).Fields()
	if fields["error"] != "plain" {
		t.Fatalf("unexpected error field %v", fields["error"])
	}
	for _, key := range []string{"error_code", "error_chain", "pg_code", "sqlite_code"} {
		if _, ok := fields[key]; ok {
			t.Fatalf("expected %s to be omitted, got %v", key, fields)
		}
	}
}

func TestDumpNil(t *testing.T) {
	if got := Dump(nil); got.TopMessage != "" || got.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", got)
	}
}
