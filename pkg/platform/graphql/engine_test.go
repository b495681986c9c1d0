package graphql

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/userdock/server/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockStore implements store.UserStore for testing
type mockStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]store.User
	order []primitive.ObjectID
	err   error
}

func newMockStore() *mockStore {
	return &mockStore{users: make(map[primitive.ObjectID]store.User)}
}

func (m *mockStore) ListAll(ctx context.Context) ([]store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []store.User{}
	for _, id := range m.order {
		out = append(out, m.users[id])
	}
	return out, nil
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	u, ok := m.users[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *mockStore) Insert(ctx context.Context, name, email string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u := store.User{ID: primitive.NewObjectID(), Name: name, Email: email}
	m.users[u.ID] = u
	m.order = append(m.order, u.ID)
	return &u, nil
}

func (m *mockStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, store.ErrInvalidID
	}
	if _, ok := m.users[oid]; !ok {
		return false, nil
	}
	delete(m.users, oid)
	for i, existing := range m.order {
		if existing == oid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *mockStore) Ping(ctx context.Context) error { return m.err }

func newTestEngine(t *testing.T, st store.UserStore) *Engine {
	t.Helper()
	e := NewEngine(st, zap.NewNop())
	if err := e.BuildSchema(); err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}
	return e
}

func execute(t *testing.T, e *Engine, query string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	result := e.Execute(context.Background(), query, vars)
	if len(result.Errors) > 0 {
		t.Fatalf("Execute(%q) errors = %v", query, result.Errors)
	}
	data, ok := result.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Execute(%q) data type = %T, want map", query, result.Data)
	}
	return data
}

func TestUsers_EmptyStore(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	data := execute(t, e, `{ users { id name email } }`, nil)

	users, ok := data["users"].([]interface{})
	if !ok {
		t.Fatalf("users type = %T, want list", data["users"])
	}
	if len(users) != 0 {
		t.Errorf("users length = %d, want 0", len(users))
	}
}

func TestAddUser(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	data := execute(t, e, `mutation { addUser(name: "Alice", email: "alice@example.com") { id name email } }`, nil)

	u, ok := data["addUser"].(map[string]interface{})
	if !ok {
		t.Fatalf("addUser type = %T, want map", data["addUser"])
	}

	id, _ := u["id"].(string)
	if id == "" {
		t.Error("addUser id is empty")
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		t.Errorf("addUser id %q is not a valid ObjectID hex: %v", id, err)
	}
	if u["name"] != "Alice" {
		t.Errorf("addUser name = %v, want Alice", u["name"])
	}
	if u["email"] != "alice@example.com" {
		t.Errorf("addUser email = %v, want alice@example.com", u["email"])
	}
}

func TestAddUser_MissingArgument(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	result := e.Execute(context.Background(), `mutation { addUser(name: "Alice") { id } }`, nil)
	if len(result.Errors) == 0 {
		t.Error("addUser without email should be a validation error")
	}
}

func TestUserByID_RoundTrip(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	data := execute(t, e, `mutation { addUser(name: "Bob", email: "bob@example.com") { id } }`, nil)
	created := data["addUser"].(map[string]interface{})
	id := created["id"].(string)

	data = execute(t, e, `query($id: ID!) { userById(id: $id) { id name email } }`,
		map[string]interface{}{"id": id})

	u, ok := data["userById"].(map[string]interface{})
	if !ok {
		t.Fatalf("userById type = %T, want map", data["userById"])
	}
	if u["id"] != id {
		t.Errorf("userById id = %v, want %v", u["id"], id)
	}
	if u["name"] != "Bob" || u["email"] != "bob@example.com" {
		t.Errorf("userById = %v, want Bob/bob@example.com", u)
	}
}

func TestUserByID_NotFound(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	// Well-formed id with no matching record: null, never an error
	data := execute(t, e, `query($id: ID!) { userById(id: $id) { id } }`,
		map[string]interface{}{"id": primitive.NewObjectID().Hex()})

	if data["userById"] != nil {
		t.Errorf("userById = %v, want nil", data["userById"])
	}
}

func TestUserByID_MalformedID(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	tests := []string{"not-an-id", "1234", "zzzzzzzzzzzzzzzzzzzzzzzz", ""}
	for _, id := range tests {
		result := e.Execute(context.Background(), `query($id: ID!) { userById(id: $id) { id } }`,
			map[string]interface{}{"id": id})
		if len(result.Errors) == 0 {
			t.Errorf("userById(%q) should report a caller error, got none", id)
		}
	}
}

func TestDeleteUser(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	data := execute(t, e, `mutation { addUser(name: "Carol", email: "carol@example.com") { id } }`, nil)
	id := data["addUser"].(map[string]interface{})["id"].(string)

	data = execute(t, e, `mutation($id: ID!) { deleteUser(id: $id) }`,
		map[string]interface{}{"id": id})
	if data["deleteUser"] != true {
		t.Errorf("deleteUser = %v, want true", data["deleteUser"])
	}

	// Second delete races to the same record: false, not an error
	data = execute(t, e, `mutation($id: ID!) { deleteUser(id: $id) }`,
		map[string]interface{}{"id": id})
	if data["deleteUser"] != false {
		t.Errorf("deleteUser (repeat) = %v, want false", data["deleteUser"])
	}
}

func TestDeleteUser_MalformedID(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	result := e.Execute(context.Background(), `mutation { deleteUser(id: "garbage") }`, nil)
	if len(result.Errors) == 0 {
		t.Error("deleteUser with malformed id should report a caller error")
	}
}

func TestUsers_AfterInserts(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	const n = 5
	for i := 0; i < n; i++ {
		execute(t, e, fmt.Sprintf(
			`mutation { addUser(name: "user%d", email: "user%d@example.com") { id } }`, i, i), nil)
	}

	data := execute(t, e, `{ users { id } }`, nil)
	users := data["users"].([]interface{})
	if len(users) != n {
		t.Fatalf("users length = %d, want %d", len(users), n)
	}

	seen := make(map[string]bool)
	for _, raw := range users {
		id := raw.(map[string]interface{})["id"].(string)
		if seen[id] {
			t.Errorf("duplicate id %q in users", id)
		}
		seen[id] = true
	}
}

func TestStorageFailure(t *testing.T) {
	st := newMockStore()
	st.err = fmt.Errorf("connection refused")
	e := newTestEngine(t, st)

	result := e.Execute(context.Background(), `{ users { id } }`, nil)
	if len(result.Errors) == 0 {
		t.Error("users with failing store should surface an operation failure")
	}
}

// Full lifecycle: add, list, delete, then lookup returns null
func TestUserLifecycle(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	data := execute(t, e, `mutation { addUser(name: "Alice", email: "alice@example.com") { id name email } }`, nil)
	created := data["addUser"].(map[string]interface{})
	id := created["id"].(string)
	if id == "" || created["name"] != "Alice" || created["email"] != "alice@example.com" {
		t.Fatalf("addUser = %v", created)
	}

	data = execute(t, e, `{ users { id name email } }`, nil)
	users := data["users"].([]interface{})
	if len(users) != 1 {
		t.Fatalf("users length = %d, want 1", len(users))
	}
	if got := users[0].(map[string]interface{})["id"]; got != id {
		t.Errorf("users[0].id = %v, want %v", got, id)
	}

	data = execute(t, e, `mutation($id: ID!) { deleteUser(id: $id) }`,
		map[string]interface{}{"id": id})
	if data["deleteUser"] != true {
		t.Fatalf("deleteUser = %v, want true", data["deleteUser"])
	}

	data = execute(t, e, `query($id: ID!) { userById(id: $id) { id } }`,
		map[string]interface{}{"id": id})
	if data["userById"] != nil {
		t.Errorf("userById after delete = %v, want nil", data["userById"])
	}
}
