package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeclock-platform/shift-service/internal/domain"
	repoMongo "github.com/timeclock-platform/shift-service/internal/infrastructure/mongodb"
	"github.com/timeclock-platform/shift-service/pkg/logging"
	"github.com/timeclock-platform/shift-service/pkg/mongodb"
	sharedtesting "github.com/timeclock-platform/shift-service/pkg/testing"
)

func testLocation() domain.GeoPoint {
	return domain.NewGeoPoint(-122.4194, 37.7749)
}

func setupTestRepository(t *testing.T) (*repoMongo.ShiftRepository, func()) {
	t.Helper()
	ctx, cancel := sharedtesting.CreateTestContext(2 * time.Minute)

	mongoContainer, err := sharedtesting.NewMongoDBContainer(ctx)
	require.NoError(t, err)

	client, err := mongodb.NewClient(ctx, &mongodb.Config{
		URI:            mongoContainer.URI,
		Database:       "shift_test_db",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		MinPoolSize:    1,
	})
	require.NoError(t, err)

	instrumented := mongodb.NewInstrumentedClient(client, nil, nil)
	logger := logging.New(logging.DefaultConfig("shift-service-test"))
	repo := repoMongo.NewShiftRepository(instrumented, logger)

	cleanup := func() {
		if err := client.Close(ctx); err != nil {
			t.Logf("Failed to disconnect MongoDB client: %v", err)
		}
		if err := mongoContainer.Close(ctx); err != nil {
			t.Logf("Failed to close MongoDB container: %v", err)
		}
		cancel()
	}

	return repo, cleanup
}

func TestShiftRepository_CreateAndFindOpen(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx, cancel := sharedtesting.CreateTestContext(30 * time.Second)
	defer cancel()

	t.Run("Create new shift", func(t *testing.T) {
		shift := domain.StartShift("SHIFT-001", "EMP-001", testLocation())

		err := repo.Create(ctx, shift)
		assert.NoError(t, err)

		found, err := repo.FindOpenByEmployee(ctx, "EMP-001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "SHIFT-001", found.ShiftID)
		assert.Equal(t, "EMP-001", found.EmployeeID)
		assert.Equal(t, domain.ShiftStatusActive, found.Status)
		assert.True(t, found.Open)
		assert.Equal(t, []float64{-122.4194, 37.7749}, found.StartLocation.Coordinates)
	})

	t.Run("Find open for employee without shift", func(t *testing.T) {
		found, err := repo.FindOpenByEmployee(ctx, "EMP-NONEXISTENT")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestShiftRepository_OneOpenShiftPerEmployee(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx, cancel := sharedtesting.CreateTestContext(30 * time.Second)
	defer cancel()

	first := domain.StartShift("SHIFT-010", "EMP-010", testLocation())
	require.NoError(t, repo.Create(ctx, first))

	t.Run("Second open shift is rejected", func(t *testing.T) {
		second := domain.StartShift("SHIFT-011", "EMP-010", testLocation())
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)
	})

	t.Run("Start after completion succeeds", func(t *testing.T) {
		require.NoError(t, first.End(testLocation()))
		require.NoError(t, repo.Update(ctx, first))

		next := domain.StartShift("SHIFT-012", "EMP-010", testLocation())
		err := repo.Create(ctx, next)
		assert.NoError(t, err)
	})

	t.Run("Different employee is unaffected", func(t *testing.T) {
		other := domain.StartShift("SHIFT-013", "EMP-011", testLocation())
		err := repo.Create(ctx, other)
		assert.NoError(t, err)
	})
}

func TestShiftRepository_Update(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx, cancel := sharedtesting.CreateTestContext(30 * time.Second)
	defer cancel()

	t.Run("Persist break and completion state", func(t *testing.T) {
		shift := domain.StartShift("SHIFT-020", "EMP-020", testLocation())
		require.NoError(t, repo.Create(ctx, shift))

		require.NoError(t, shift.StartBreak(domain.BreakKindLunch, testLocation()))
		require.NoError(t, repo.Update(ctx, shift))

		found, err := repo.FindOpenByEmployee(ctx, "EMP-020")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.ShiftStatusOnBreak, found.Status)
		require.Len(t, found.Breaks, 1)
		assert.Equal(t, domain.BreakKindLunch, found.Breaks[0].Kind)

		require.NoError(t, shift.End(testLocation()))
		require.NoError(t, repo.Update(ctx, shift))

		// Completed shift no longer shows up as open
		found, err = repo.FindOpenByEmployee(ctx, "EMP-020")
		require.NoError(t, err)
		assert.Nil(t, found)

		history, err := repo.FindByEmployee(ctx, "EMP-020")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, domain.ShiftStatusCompleted, history[0].Status)
		assert.NotNil(t, history[0].EndTime)
		require.Len(t, history[0].Breaks, 1)
		assert.NotNil(t, history[0].Breaks[0].EndTime)
	})

	t.Run("Update unknown shift fails", func(t *testing.T) {
		ghost := domain.StartShift("SHIFT-GHOST", "EMP-GHOST", testLocation())
		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, domain.ErrNoActiveShift)
	})

	t.Run("Update after completion does not resurrect the shift", func(t *testing.T) {
		shift := domain.StartShift("SHIFT-021", "EMP-021", testLocation())
		require.NoError(t, repo.Create(ctx, shift))
		require.NoError(t, shift.End(testLocation()))
		require.NoError(t, repo.Update(ctx, shift))

		stale := *shift
		stale.Status = domain.ShiftStatusActive
		stale.Open = true
		stale.EndTime = nil
		err := repo.Update(ctx, &stale)
		assert.ErrorIs(t, err, domain.ErrNoActiveShift)

		found, err := repo.FindOpenByEmployee(ctx, "EMP-021")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestShiftRepository_FindByEmployee_Ordering(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx, cancel := sharedtesting.CreateTestContext(30 * time.Second)
	defer cancel()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, shiftID := range []string{"SHIFT-030", "SHIFT-031", "SHIFT-032"} {
		shift := domain.StartShift(shiftID, "EMP-030", testLocation())
		shift.StartTime = base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, shift.End(testLocation()))
		require.NoError(t, repo.Create(ctx, shift))
	}

	history, err := repo.FindByEmployee(ctx, "EMP-030")
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Newest first
	assert.Equal(t, "SHIFT-032", history[0].ShiftID)
	assert.Equal(t, "SHIFT-031", history[1].ShiftID)
	assert.Equal(t, "SHIFT-030", history[2].ShiftID)
}

func TestShiftRepository_FindAll(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx, cancel := sharedtesting.CreateTestContext(30 * time.Second)
	defer cancel()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		shift := domain.StartShift(
			"SHIFT-ALL-"+string(rune('A'+i)),
			"EMP-ALL-"+string(rune('A'+i)),
			testLocation(),
		)
		shift.StartTime = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, shift))
	}

	t.Run("Pagination", func(t *testing.T) {
		page, err := repo.FindAll(ctx, 4, 0)
		assert.NoError(t, err)
		assert.Len(t, page, 4)

		rest, err := repo.FindAll(ctx, 4, 4)
		assert.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("Newest first", func(t *testing.T) {
		page, err := repo.FindAll(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "EMP-ALL-F", page[0].EmployeeID)
		assert.Equal(t, "EMP-ALL-E", page[1].EmployeeID)
	})
}
