package search

import (
	"context"
	"testing"

	"NewsClipper/internal/domain"
)

type stubSource struct {
	name string
	id   int
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Search(context.Context, string, int) ([]domain.Candidate, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubSource{name: "naver"})
	reg.Register(stubSource{name: "gnews"})

	src, err := reg.Resolve("gnews")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if src.Name() != "gnews" {
		t.Fatalf("resolved %q", src.Name())
	}

	if _, err := reg.Resolve("unknown"); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubSource{name: "naver", id: 1})
	reg.Register(stubSource{name: "naver", id: 2})

	src, err := reg.Resolve("naver")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if src.(stubSource).id != 2 {
		t.Fatal("later registration did not replace the earlier one")
	}
}
