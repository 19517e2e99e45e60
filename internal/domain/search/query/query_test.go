package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/chronofeed/chronofeed/internal/domain"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
	"github.com/chronofeed/chronofeed/internal/domain/search/mode"
)

func TestNew_Valid(t *testing.T) {
	q, err := New("redis pipeline", mode.Text, filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "redis pipeline" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.Mode() != mode.Text {
		t.Errorf("Mode() = %q", q.Mode())
	}
}

func TestNew_DefaultsToHybrid(t *testing.T) {
	q, err := New("redis", "", filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Mode() != mode.Hybrid {
		t.Errorf("Mode() = %q, want hybrid", q.Mode())
	}
}

func TestNew_TrimsWhitespace(t *testing.T) {
	q, err := New("  redis  ", mode.Hybrid, filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "redis" {
		t.Errorf("Text() = %q, want trimmed", q.Text())
	}
}

func TestNew_TooShort(t *testing.T) {
	cases := []string{"", "ab", "  ab  ", " \t "}
	for _, text := range cases {
		_, err := New(text, mode.Hybrid, filter.Set{})
		if err == nil {
			t.Errorf("New(%q): expected error", text)
			continue
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("New(%q): expected ErrValidation, got %v", text, err)
		}
	}
}

func TestNew_TooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxLength+1), mode.Hybrid, filter.Set{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestNew_InvalidMode(t *testing.T) {
	_, err := New("redis", "semantic", filter.Set{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
