package audit

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"darew.com/internal/auth"
	"darew.com/internal/content"
	"darew.com/internal/kv"
	"darew.com/internal/obs"
)

func TestLogEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := obs.SetLogger(zap.New(core))
	defer restore()

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{ID: "user-42", Name: "Jane"})

	if err := LogEvent(ctx, "audit.test", zap.String("foo", "bar")); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if fields["type"] != "audit" {
		t.Fatalf("unexpected type: %v", fields["type"])
	}
	if fields["event"] != "audit.test" {
		t.Fatalf("unexpected event: %v", fields["event"])
	}
	if fields["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", fields["request_id"])
	}
	if fields["identity_id"] != "user-42" {
		t.Fatalf("unexpected identity id: %v", fields["identity_id"])
	}
	if fields["foo"] != "bar" {
		t.Fatalf("fields missing or incorrect: %v", fields)
	}

	if err := LogEvent(ctx, "  "); err == nil {
		t.Fatal("expected error for empty event")
	}
}

func TestRecorderUsesIdentityName(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := obs.SetLogger(zap.New(core))
	defer restore()

	store, err := content.New(context.Background(), kv.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder(store)
	ctx := auth.ContextWithIdentity(context.Background(), auth.Identity{ID: "1", Name: "Admin User"})

	entry := rec.Record(ctx, "Created service: Solar")
	if entry.AdminName != "Admin User" || entry.Action != "Created service: Solar" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if got := store.Logs(); len(got) != 1 || got[0].ID != entry.ID {
		t.Fatalf("entry not stored: %+v", got)
	}
	if logs.FilterField(zap.String("entry_id", entry.ID)).Len() != 1 {
		t.Fatal("audit log line missing")
	}

	anon := rec.Record(context.Background(), "Updated company stats")
	if anon.AdminName != UnknownActor {
		t.Fatalf("expected unknown actor, got %q", anon.AdminName)
	}
}
