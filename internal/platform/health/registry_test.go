package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/platform/health"
	"github.com/jsamuelsen11/teamspace/mocks"
)

func checker(t *testing.T, name string, err error) *mocks.MockHealthChecker {
	t.Helper()
	c := mocks.NewMockHealthChecker(t)
	c.EXPECT().Name().Return(name)
	c.EXPECT().HealthCheck(mock.Anything).Return(err).Maybe()
	return c
}

func TestCheckAll(t *testing.T) {
	t.Parallel()

	diskErr := errors.New("disk I/O error")
	tests := []struct {
		name     string
		checkers func(t *testing.T) []*mocks.MockHealthChecker
		want     map[string]error
	}{
		{
			name:     "empty",
			checkers: func(*testing.T) []*mocks.MockHealthChecker { return nil },
			want:     map[string]error{},
		},
		{
			name: "all healthy",
			checkers: func(t *testing.T) []*mocks.MockHealthChecker {
				return []*mocks.MockHealthChecker{checker(t, "sqlite", nil), checker(t, "eventbus", nil)}
			},
			want: map[string]error{"sqlite": nil, "eventbus": nil},
		},
		{
			name: "one failing",
			checkers: func(t *testing.T) []*mocks.MockHealthChecker {
				return []*mocks.MockHealthChecker{checker(t, "sqlite", diskErr), checker(t, "eventbus", nil)}
			},
			want: map[string]error{"sqlite": diskErr, "eventbus": nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := health.New()
			for _, c := range tt.checkers(t) {
				r.Register(c)
			}
			assert.Equal(t, tt.want, r.CheckAll(context.Background()))
		})
	}
}

func TestRegister_ReplacesSameName(t *testing.T) {
	t.Parallel()

	replaced := mocks.NewMockHealthChecker(t)
	replaced.EXPECT().Name().Return("sqlite")

	current := checker(t, "sqlite", errors.New("locked"))

	r := health.New()
	r.Register(replaced)
	r.Register(current)

	results := r.CheckAll(context.Background())
	require.Len(t, results, 1)
	assert.EqualError(t, results["sqlite"], "locked")
}

func TestCheckAll_PropagatesCancellation(t *testing.T) {
	t.Parallel()

	c := mocks.NewMockHealthChecker(t)
	c.EXPECT().Name().Return("eventbus")
	c.EXPECT().HealthCheck(mock.Anything).RunAndReturn(func(ctx context.Context) error { return ctx.Err() })

	r := health.New()
	r.Register(c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.CheckAll(ctx)["eventbus"], context.Canceled)
}

func TestCheckAll_WithTimeout(t *testing.T) {
	t.Parallel()

	c := mocks.NewMockHealthChecker(t)
	c.EXPECT().Name().Return("sqlite")
	c.EXPECT().HealthCheck(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	r := health.New(health.WithTimeout(10 * time.Millisecond))
	r.Register(c)

	assert.ErrorIs(t, r.CheckAll(context.Background())["sqlite"], context.DeadlineExceeded)
}

func TestCheckAll_ConcurrentRegistration(t *testing.T) {
	t.Parallel()

	r := health.New()
	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				r.Register(checker(t, "store", nil))
				return
			}
			r.CheckAll(context.Background())
		}()
	}
	wg.Wait()

	assert.Len(t, r.CheckAll(context.Background()), 1)
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("sorted with failure", func(t *testing.T) {
		t.Parallel()

		r := health.New()
		r.Register(checker(t, "sqlite", errors.New("disk I/O error")))
		r.Register(checker(t, "eventbus", nil))

		results, ok := health.Report(context.Background(), r)
		assert.False(t, ok)
		require.Len(t, results, 2)
		assert.Equal(t, "eventbus", results[0].Name)
		assert.True(t, results[0].Healthy())
		assert.Equal(t, "sqlite", results[1].Name)
		assert.False(t, results[1].Healthy())
	})

	t.Run("empty is healthy", func(t *testing.T) {
		t.Parallel()

		results, ok := health.Report(context.Background(), health.New())
		assert.True(t, ok)
		assert.Empty(t, results)
	})
}
