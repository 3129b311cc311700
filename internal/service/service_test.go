package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
	"golang.org/x/crypto/bcrypt"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor trusts the test user header as the caller identity.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := req.Header().Get(testUserHeader); id != "" {
				ctx = middleware.WithUser(ctx, id, "")
			}
			return next(ctx, req)
		}
	}
}

// testNow is the fixed clock of the test server.
var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *sqlite.SQLiteStore
	ledgerSvc *LedgerService
	ledger    apiconnect.LedgerServiceClient
	groups    apiconnect.GroupServiceClient
	auth      apiconnect.AuthServiceClient

	alice, bob, carol, dave *models.User
}

// setupTestServer starts all services over a fresh SQLite database with
// four registered users.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{store: store}
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	created := make([]*models.User, len(names))
	for i, name := range names {
		u := models.NewUser(strings.ToLower(name)+"@example.com", name, "")
		if err := store.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("failed to create user %s: %v", name, err)
		}
		created[i] = u
	}
	env.alice, env.bob, env.carol, env.dave = created[0], created[1], created[2], created[3]

	jwt := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	interceptors := connect.WithInterceptors(testAuthInterceptor())

	env.ledgerSvc = NewLedgerService(store, nil, WithClock(func() time.Time { return testNow }))
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(env.ledgerSvc, interceptors)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(NewGroupService(store, nil), interceptors)
	authPath, authHandler := apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwt, store, nil), interceptors)

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(groupPath, groupHandler)
	mux.Handle(authPath, authHandler)
	server := httptest.NewServer(mux)

	env.ledger = apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)
	env.groups = apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return env
}

// as builds a request made by user.
func as[T any](user *models.User, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if user != nil {
		req.Header().Set(testUserHeader, user.ID)
	}
	return req
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

// equalSplits divides amount evenly and marks the payer's share paid.
func equalSplits(payer *models.User, amount float64, users ...*models.User) []api.Split {
	share := amount / float64(len(users))
	splits := make([]api.Split, len(users))
	for i, u := range users {
		splits[i] = api.Split{UserID: u.ID, Amount: share, Paid: u.ID == payer.ID}
	}
	return splits
}

func (env *testEnv) createExpense(t *testing.T, caller *models.User, msg *api.CreateExpenseRequest) string {
	t.Helper()
	if msg.SplitType == "" {
		msg.SplitType = string(models.SplitEqual)
	}
	resp, err := env.ledger.CreateExpense(context.Background(), as(caller, msg))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if resp.Msg.ExpenseID == "" {
		t.Fatal("expected expense ID")
	}
	return resp.Msg.ExpenseID
}

func (env *testEnv) createSettlement(t *testing.T, caller *models.User, msg *api.CreateSettlementRequest) string {
	t.Helper()
	resp, err := env.ledger.CreateSettlement(context.Background(), as(caller, msg))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	return resp.Msg.SettlementID
}

func (env *testEnv) pairBalance(t *testing.T, me, other *models.User) float64 {
	t.Helper()
	resp, err := env.ledger.GetPairwiseLedger(context.Background(), as(me, &api.GetPairwiseLedgerRequest{CounterpartyID: other.ID}))
	if err != nil {
		t.Fatalf("GetPairwiseLedger failed: %v", err)
	}
	return resp.Msg.Balance
}

func (env *testEnv) createGroup(t *testing.T, caller *models.User, members ...*models.User) string {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	resp, err := env.groups.CreateGroup(context.Background(), as(caller, &api.CreateGroupRequest{Name: "Flat", MemberIDs: ids}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group.ID
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func storageFilterRelated(expenseID string) storage.SettlementFilter {
	return storage.SettlementFilter{RelatedExpenseID: expenseID}
}
