package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ctxKey struct{}

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:repo_base?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return conn
}

func TestBaseScopesContext(t *testing.T) {
	db := openMemoryDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "handoff")
	scoped := base.DB(ctx)
	if scoped == nil || scoped.Statement == nil {
		t.Fatalf("expected scoped session")
	}
	if scoped.Statement.Context != ctx {
		t.Fatalf("expected context to be carried, got %v", scoped.Statement.Context)
	}
}

func TestBaseNilContextReturnsHandle(t *testing.T) {
	db := openMemoryDB(t)
	base := NewBase(db)

	if got := base.DB(nil); got != db {
		t.Fatalf("expected raw handle for nil context")
	}
}
