package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestWrapPreservesExistingTypedError(t *testing.T) {
	inner := New(KindStorage, "cache.get", "backend unavailable")
	wrapped := Wrap(KindTransport, "handler", "request failed", inner)

	if wrapped != inner {
		t.Fatalf("expected Wrap to keep the original typed error, got %+v", wrapped)
	}
	if !IsKind(wrapped, KindStorage) {
		t.Fatal("expected storage kind to survive wrapping")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if got := Wrap(KindDomain, "op", "msg", nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestIsKindWalksChain(t *testing.T) {
	base := New(KindCatalog, "catalog.search", "upstream rejected request")
	outer := fmt.Errorf("handler: %w", base)

	if !IsKind(outer, KindCatalog) {
		t.Fatal("expected IsKind to find catalog kind through fmt wrapping")
	}
	if IsKind(outer, KindConfig) {
		t.Fatal("did not expect config kind")
	}
}

func TestBusinessErrorDefaults(t *testing.T) {
	be := NewBusiness(map[string]string{"deviceId": "deviceId is required"}, 0)
	if be.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected default 400, got %d", be.StatusCode)
	}
	if !strings.Contains(be.Error(), "deviceId is required") {
		t.Fatalf("unexpected error text: %s", be.Error())
	}
}

func TestBusinessMessageShape(t *testing.T) {
	be := NewBusinessMessage("Invalid or expired token", http.StatusUnauthorized)
	if be.Messages["message"] != "Invalid or expired token" {
		t.Fatalf("unexpected messages: %v", be.Messages)
	}
	if be.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", be.StatusCode)
	}
}

func TestAsBusinessThroughChain(t *testing.T) {
	be := NewBusinessMessage("nope", http.StatusUnauthorized)
	wrapped := fmt.Errorf("gate: %w", be)

	got, ok := AsBusiness(wrapped)
	if !ok || got != be {
		t.Fatalf("expected to recover business error, got %v / %v", got, ok)
	}

	if _, ok := AsBusiness(errors.New("plain")); ok {
		t.Fatal("plain errors must not be treated as business errors")
	}
}
