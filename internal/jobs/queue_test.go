package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/cache"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
	pkgjobs "github.com/kanjilab/jhs-scheduler/pkg/jobs"
)

// fakeRedis is a minimal in-memory redisCommander stand-in, identical in
// shape to internal/cache's own test fake -- this repository does not ship
// a live Redis server for tests to run against.
type fakeRedis struct {
	values map[string][]byte
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	data, ok := value.([]byte)
	if !ok {
		data, _ = json.Marshal(value)
	}
	f.values[key] = data
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	data, ok := f.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(data))
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var deleted int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			deleted++
		}
	}
	cmd.SetVal(deleted)
	return cmd
}

func testEngine(class domain.ClassRef) *engine.Engine {
	cfg := engine.Config{
		Classes:                []domain.ClassRef{class},
		AcademicDailyCap:       2,
		SkillDailyCap:          1,
		StandardHoursTolerance: 1,
		StandardHours:          domain.StandardHoursTable{},
		BacktrackDepth:         3,
		MaxRepairIterations:    100,
	}
	return engine.New(cfg, nil)
}

func TestSubmitAssignsRunIDWhenEmpty(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	results := cache.New(newFakeRedis(), time.Minute)
	q := NewGenerationQueue(testEngine(class), results, pkgjobs.QueueConfig{Workers: 1}, nil)
	q.Start(context.Background())
	defer q.Stop()

	roster := domain.NewTeacherMapping()
	teacher := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	roster.Teachers[teacher.ID] = teacher
	roster.Entries = append(roster.Entries, domain.RosterEntry{Class: class, Subject: domain.CodeMath, TeacherID: teacher.ID})

	runID, err := q.Submit(GenerationRequest{
		Input:    domain.NewInputGrid(),
		Roster:   roster,
		FollowUp: domain.NewFollowUp(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, runID)
}

func TestSubmitAndPollRoundTripsCompletedOutcome(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	results := cache.New(newFakeRedis(), time.Minute)
	q := NewGenerationQueue(testEngine(class), results, pkgjobs.QueueConfig{Workers: 1}, nil)
	q.Start(context.Background())
	defer q.Stop()

	roster := domain.NewTeacherMapping()
	teacher := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	roster.Teachers[teacher.ID] = teacher
	roster.Entries = append(roster.Entries, domain.RosterEntry{Class: class, Subject: domain.CodeMath, TeacherID: teacher.ID})

	runID, err := q.Submit(GenerationRequest{
		RunID:    "run-fixed",
		Input:    domain.NewInputGrid(),
		Roster:   roster,
		FollowUp: domain.NewFollowUp(),
	})
	require.NoError(t, err)
	require.Equal(t, "run-fixed", runID)

	require.Eventually(t, func() bool {
		outcome, found, err := q.Poll(context.Background(), runID)
		return err == nil && found && outcome.RunID == runID
	}, time.Second, 5*time.Millisecond, "outcome should become pollable once the worker finishes")
}

func TestHandleRejectsUnexpectedPayloadType(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	results := cache.New(newFakeRedis(), time.Minute)
	q := NewGenerationQueue(testEngine(class), results, pkgjobs.QueueConfig{Workers: 1}, nil)

	err := q.handle(context.Background(), pkgjobs.Job{ID: "bad", Payload: "not-a-request"})
	require.Error(t, err)
}
