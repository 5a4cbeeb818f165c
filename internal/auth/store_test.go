package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"darew.com/internal/kv"
	"darew.com/internal/persist"
)

func newTestStore(t *testing.T, st kv.Store) *Store {
	t.Helper()
	s, err := New(context.Background(), st, WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSeedAdminSignInSequence(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()
	s := newTestStore(t, st)

	if s.IsAuthenticated() {
		t.Fatal("fresh store must start signed out")
	}
	if !s.SignIn(ctx, "admin@darew.com", "admin123") {
		t.Fatal("seed credentials rejected")
	}
	cur, ok := s.Current()
	if !ok || cur.ID != "1" || cur.Role != RoleSuperAdmin || cur.Name != "Admin User" {
		t.Fatalf("unexpected current identity %+v", cur)
	}
	if cur.PasswordHash != "" {
		t.Fatal("current identity must not expose the secret")
	}
	if _, ok := persist.LoadOne[Identity](ctx, st, persist.KeyCurrentIdentity); !ok {
		t.Fatal("current identity was not persisted")
	}

	s.SignOut(ctx)
	if s.IsAuthenticated() {
		t.Fatal("still authenticated after sign-out")
	}
	if _, err := st.Get(ctx, persist.KeyCurrentIdentity); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("current identity record should be gone, got %v", err)
	}

	if s.SignIn(ctx, "admin@darew.com", "wrong") {
		t.Fatal("wrong secret accepted")
	}
	if s.IsAuthenticated() {
		t.Fatal("failed sign-in changed state")
	}
}

func TestSignInFailureKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	if !s.SignIn(ctx, "admin@darew.com", "admin123") {
		t.Fatal("sign-in failed")
	}
	for _, tc := range []struct{ email, secret string }{
		{"admin@darew.com", "admin1234"},
		{"ADMIN@darew.com", "admin123"},
		{"nobody@darew.com", "admin123"},
		{"", ""},
	} {
		if s.SignIn(ctx, tc.email, tc.secret) {
			t.Fatalf("SignIn(%q, %q) = true", tc.email, tc.secret)
		}
	}
	cur, ok := s.Current()
	if !ok || cur.ID != "1" {
		t.Fatalf("current identity changed: %+v", cur)
	}
}

func TestSecretsAreHashed(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()
	s := newTestStore(t, st)

	added, err := s.AddIdentity(ctx, Identity{Name: "Jane", Email: "jane@darew.com", Role: RoleEditor, PasswordHash: "s3cret"})
	if err != nil {
		t.Fatalf("AddIdentity: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected generated id")
	}
	raw, err := st.Get(ctx, persist.KeyIdentities)
	if err != nil {
		t.Fatalf("roster not persisted: %v", err)
	}
	if strings.Contains(string(raw), "s3cret") || strings.Contains(string(raw), "admin123") {
		t.Fatalf("plain-text secret written to storage: %s", raw)
	}
	if !s.SignIn(ctx, "jane@darew.com", "s3cret") {
		t.Fatal("new identity cannot sign in")
	}
}

func TestLegacyPlainTextSecretIsUpgraded(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()
	legacy := []Identity{{ID: "7", Name: "Old", Email: "old@darew.com", Role: RoleViewer, PasswordHash: "letmein"}}
	if err := persist.Save(ctx, st, persist.KeyIdentities, legacy); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := newTestStore(t, st)

	if s.SignIn(ctx, "old@darew.com", "letmein!") {
		t.Fatal("wrong legacy secret accepted")
	}
	if !s.SignIn(ctx, "old@darew.com", "letmein") {
		t.Fatal("legacy secret rejected")
	}
	stored, _ := s.Lookup("7")
	if !IsHash(stored.PasswordHash) {
		t.Fatalf("legacy secret not rehashed: %q", stored.PasswordHash)
	}

	reloaded := newTestStore(t, st)
	if !reloaded.SignIn(ctx, "old@darew.com", "letmein") {
		t.Fatal("rehashed secret rejected after reload")
	}
}

func TestStoredRosterReplacesDefaults(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()
	if err := st.Put(ctx, persist.KeyIdentities, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	s := newTestStore(t, st)
	if n := len(s.Roster()); n != 0 {
		t.Fatalf("expected the stored empty roster, got %d entries", n)
	}
	if s.SignIn(ctx, "admin@darew.com", "admin123") {
		t.Fatal("seed admin must not exist once a roster is stored")
	}
}

func TestCorruptRosterFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()
	if err := st.Put(ctx, persist.KeyIdentities, []byte(`null`)); err != nil {
		t.Fatal(err)
	}
	s := newTestStore(t, st)
	if !s.SignIn(ctx, "admin@darew.com", "admin123") {
		t.Fatal("defaults not restored for a null roster")
	}
}

func TestCurrentIdentityRestoredOnStart(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()
	first := newTestStore(t, st)
	if !first.SignIn(ctx, "admin@darew.com", "admin123") {
		t.Fatal("sign-in failed")
	}
	second := newTestStore(t, st)
	if !second.IsAuthenticated() {
		t.Fatal("signed-in state not restored")
	}
}

func TestRemoveIdentity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	added, err := s.AddIdentity(ctx, Identity{ID: "u2", Name: "Two", Email: "two@darew.com", Role: RoleEditor, PasswordHash: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	s.RemoveIdentity(ctx, "missing")
	if len(s.Roster()) != 2 {
		t.Fatal("unknown id changed the roster")
	}
	s.RemoveIdentity(ctx, added.ID)
	if _, ok := s.Lookup(added.ID); ok {
		t.Fatal("identity still present")
	}
	if len(s.Roster()) != 1 {
		t.Fatalf("roster = %+v", s.Roster())
	}
}

func TestRemovingSignedInIdentitySignsOut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	if !s.SignIn(ctx, "admin@darew.com", "admin123") {
		t.Fatal("sign-in failed")
	}
	s.RemoveIdentity(ctx, SeedIdentityID)
	if s.IsAuthenticated() {
		t.Fatal("removed identity still signed in")
	}
	if len(s.Roster()) != 0 {
		t.Fatal("roster should be empty")
	}
}

func TestAddIdentityRejectsUnhashableSecret(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	_, err := s.AddIdentity(context.Background(), Identity{Email: "x@darew.com", PasswordHash: strings.Repeat("x", 73)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(s.Roster()) != 1 {
		t.Fatal("failed add must not change the roster")
	}
}

func TestRosterReturnsCopy(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	r := s.Roster()
	r[0].Name = "mutated"
	if got, _ := s.Lookup("1"); got.Name != "Admin User" {
		t.Fatal("Roster leaked internal state")
	}
}

func TestWithHashCostValidates(t *testing.T) {
	if _, err := New(context.Background(), kv.NewMemory(), WithHashCost(64)); err == nil {
		t.Fatal("expected error for out-of-range cost")
	}
}

func TestConcurrentSignInAndMutations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SignIn(ctx, "admin@darew.com", "admin123")
			_ = s.IsAuthenticated()
		}()
		go func(i int) {
			defer wg.Done()
			_, _ = s.AddIdentity(ctx, Identity{Name: "n", Email: "e", PasswordHash: "p"})
			_ = s.Roster()
		}(i)
	}
	wg.Wait()
	if len(s.Roster()) != 9 {
		t.Fatalf("expected 9 identities, got %d", len(s.Roster()))
	}
}

func TestAddIdentityHashesHashShapedSecret(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	other, err := bcrypt.GenerateFromPassword([]byte("other"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	secret := string(other)
	if _, err := s.AddIdentity(ctx, Identity{Name: "Hashy", Email: "hashy@darew.com", Role: RoleViewer, PasswordHash: secret}); err != nil {
		t.Fatalf("AddIdentity: %v", err)
	}
	if s.SignIn(ctx, "hashy@darew.com", "other") {
		t.Fatal("secret stored verbatim as a hash")
	}
	if !s.SignIn(ctx, "hashy@darew.com", secret) {
		t.Fatal("exact secret rejected")
	}
}

// cancelAwareKV refuses writes on a cancelled context like the SQL and S3
// backends do.
type cancelAwareKV struct{ *kv.Memory }

func (c cancelAwareKV) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Memory.Put(ctx, key, value)
}

func (c cancelAwareKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Memory.Delete(ctx, key)
}

func TestCancelledContextStillPersists(t *testing.T) {
	st := cancelAwareKV{kv.NewMemory()}
	s := newTestStore(t, st)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	added, err := s.AddIdentity(ctx, Identity{Name: "Late", Email: "late@darew.com", Role: RoleEditor, PasswordHash: "pw"})
	if err != nil {
		t.Fatalf("AddIdentity: %v", err)
	}
	if !s.SignIn(ctx, "late@darew.com", "pw") {
		t.Fatal("sign-in failed")
	}

	reloaded := newTestStore(t, st)
	if _, ok := reloaded.Lookup(added.ID); !ok {
		t.Fatal("identity lost after reload")
	}
	if cur, ok := reloaded.Current(); !ok || cur.ID != added.ID {
		t.Fatalf("current identity not persisted: %+v ok=%v", cur, ok)
	}

	s.SignOut(ctx)
	if newTestStore(t, st).IsAuthenticated() {
		t.Fatal("sign-out not persisted")
	}
}
