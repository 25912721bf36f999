package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQuerier struct{ name string }

func (f *fakeQuerier) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, nil
}
func (f *fakeQuerier) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }
func (f *fakeQuerier) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func TestConnFromContextEmpty(t *testing.T) {
	if q := ConnFromContext(context.Background()); q != nil {
		t.Fatalf("expected nil querier on bare context, got %v", q)
	}
}

func TestConnRoundTrip(t *testing.T) {
	want := &fakeQuerier{name: "tx"}
	ctx := WithConn(context.Background(), want)
	got := ConnFromContext(ctx)
	if got != Queryable(want) {
		t.Fatalf("expected the stored querier back, got %v", got)
	}
}

func TestWithConnOverrides(t *testing.T) {
	outer := &fakeQuerier{name: "outer"}
	inner := &fakeQuerier{name: "inner"}
	ctx := WithConn(WithConn(context.Background(), outer), inner)
	if got := ConnFromContext(ctx); got != Queryable(inner) {
		t.Fatalf("expected innermost querier, got %v", got)
	}
}
