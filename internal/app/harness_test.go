package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/adapters/eventbus"
	"github.com/jsamuelsen11/teamspace/internal/adapters/persistence/sqlite"
	"github.com/jsamuelsen11/teamspace/internal/adapters/security"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// testEnv wires every service to a throwaway sqlite database and records
// what the bus published.
type testEnv struct {
	store *sqlite.Store

	users          *UserService
	workspaces     *WorkspaceService
	projects       *ProjectService
	tasks          *TaskService
	chat           *ChatService
	availabilities *AvailabilityService
	agents         *AgentService

	mu        sync.Mutex
	published []event.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "app.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{store: store}
	bus := eventbus.New()
	bus.Subscribe(eventbus.Wildcard, func(_ context.Context, e event.Event) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.published = append(env.published, e)
		return nil
	})

	rt := NewRuntime(sqlite.NewUnitOfWork(store), bus, discardLogger(), WithClock(func() time.Time { return fixedNow }))

	userRepo := sqlite.NewUserRepository(store)
	workspaceRepo := sqlite.NewWorkspaceRepository(store)
	projectRepo := sqlite.NewProjectRepository(store)
	taskRepo := sqlite.NewTaskRepository(store)
	availabilityRepo := sqlite.NewAvailabilityRepository(store)
	conversationRepo := sqlite.NewConversationRepository(store)
	agentRepo := sqlite.NewAgentRepository(store)

	hasher := security.NewArgon2Hasher(security.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 16})

	env.users = NewUserService(rt, userRepo, hasher)
	env.workspaces = NewWorkspaceService(rt, userRepo, workspaceRepo)
	env.projects = NewProjectService(rt, workspaceRepo, projectRepo)
	env.tasks = NewTaskService(rt, projectRepo, taskRepo)
	env.chat = NewChatService(rt, workspaceRepo, conversationRepo)
	env.availabilities = NewAvailabilityService(rt, projectRepo, availabilityRepo)
	env.agents = NewAgentService(rt, AgentRepositories{
		Workspaces:     workspaceRepo,
		Projects:       projectRepo,
		Tasks:          taskRepo,
		Availabilities: availabilityRepo,
		Conversations:  conversationRepo,
		Agents:         agentRepo,
	})
	return env
}

// register creates a user and returns its id.
func (e *testEnv) register(t *testing.T, name string) string {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, name+"@example.com", "correct horse battery")
	require.NoError(t, err)
	return u.ID()
}

// eventTypes returns the types published so far, in order.
func (e *testEnv) eventTypes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.published))
	for _, ev := range e.published {
		out = append(out, ev.Type)
	}
	return out
}

func (e *testEnv) resetEvents() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = nil
}
