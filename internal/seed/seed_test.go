package seed

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type recordingWriter struct {
	names  []string
	failAt int
}

func (w *recordingWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if w.failAt > 0 && len(w.names)+1 == w.failAt {
		return nil, errors.New("write failed")
	}
	w.names = append(w.names, p.Name)
	return &p, nil
}

func TestApply(t *testing.T) {
	w := &recordingWriter{}
	n, err := Apply(context.Background(), w)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n != len(demoProducts) || len(w.names) != len(demoProducts) {
		t.Fatalf("expected %d products, got %d", len(demoProducts), n)
	}
}

func TestApply_ReportsPartialProgress(t *testing.T) {
	w := &recordingWriter{failAt: 3}
	n, err := Apply(context.Background(), w)
	if err == nil || n != 2 {
		t.Fatalf("expected failure after 2 products, got n=%d err=%v", n, err)
	}
}
