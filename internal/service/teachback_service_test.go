package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chorechampions/internal/models"
	"chorechampions/internal/teachback"
)

type scriptedJudge struct {
	calls  atomic.Int32
	answer string
	err    error

	mu   sync.Mutex
	last teachback.Request
}

func (j *scriptedJudge) Evaluate(_ context.Context, req teachback.Request) (string, error) {
	j.calls.Add(1)
	j.mu.Lock()
	j.last = req
	j.mu.Unlock()
	return j.answer, j.err
}

func (j *scriptedJudge) lastRequest() teachback.Request {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}

func openSessions(svc *TeachBackService) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.sessions)
}

func waitForPoints(t *testing.T, svc *LearnerService, id string, want int) models.Learner {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		p, err := svc.Profile(id)
		require.NoError(t, err)
		if p.Learner.Points == want {
			return p.Learner
		}
		if time.Now().After(deadline) {
			t.Fatalf("points = %d, want %d", p.Learner.Points, want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTeachBackPassAppliesBonus(t *testing.T) {
	repo, _ := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	withPoints(t, repo, "sophia", 40, 40)

	judge := &scriptedJudge{answer: `Here you go: {"passed":true,"feedback":"Great job!","score":8}`}
	svc := NewTeachBackService(judge, learners, 10*time.Millisecond, false)

	res, err := svc.Submit(context.Background(), "sophia", 4, "Fractions split a whole into equal parts")
	require.NoError(t, err)
	assert.True(t, res.Verdict.Passed)
	assert.Equal(t, "Great job!", res.Verdict.Feedback)
	assert.Equal(t, 8, res.Verdict.Score)
	assert.Equal(t, "passed", res.State)

	l := waitForPoints(t, learners, "sophia", 77)
	assert.True(t, l.HasCompleted(4))
	assert.Equal(t, 77, l.LifetimePoints)
	assert.Equal(t, 25, l.SubjectXP[models.SubjectMath])

	_, err = svc.Submit(context.Background(), "sophia", 4, "Fractions split a whole into equal parts")
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, int32(1), judge.calls.Load())
}

func TestTeachBackRejectedLeavesLearnerAlone(t *testing.T) {
	repo, _ := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	judge := &scriptedJudge{answer: `{"passed":false,"feedback":"Tell me more about the plot."}`}
	svc := NewTeachBackService(judge, learners, time.Millisecond, false)

	res, err := svc.Submit(context.Background(), "ella", 5, "It was a nice book")
	require.NoError(t, err)
	assert.False(t, res.Verdict.Passed)
	assert.Equal(t, "rejected", res.State)

	res, err = svc.Submit(context.Background(), "ella", 5, "short")
	require.NoError(t, err)
	assert.Equal(t, teachback.CoachingMessage, res.Verdict.Feedback)
	assert.Equal(t, int32(1), judge.calls.Load())

	time.Sleep(20 * time.Millisecond)
	l, err := repo.Get("ella")
	require.NoError(t, err)
	assert.Zero(t, l.Points)
	assert.Empty(t, l.CompletedToday)
}

func TestTeachBackEligibility(t *testing.T) {
	repo, _ := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	judge := &scriptedJudge{answer: `{"passed":true,"feedback":"ok"}`}
	svc := NewTeachBackService(judge, learners, time.Millisecond, false)

	tests := []struct {
		name    string
		learner string
		task    int64
		wantErr error
	}{
		{name: "chore", learner: "ella", task: 1, wantErr: ErrNotEligible},
		{name: "not assigned", learner: "ella", task: 6, wantErr: ErrTaskNotAssigned},
		{name: "missing task", learner: "ella", task: 77, wantErr: ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.learner, tt.task, "A long enough explanation of things")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, int32(0), judge.calls.Load())
}

func TestTeachBackJudgeFailure(t *testing.T) {
	repo, _ := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	judge := &scriptedJudge{err: teachback.ErrEmptyResponse}
	svc := NewTeachBackService(judge, learners, time.Millisecond, false)

	res, err := svc.Submit(context.Background(), "sophia", 6, "Scales go up in whole and half steps")
	var verr *teachback.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "error", res.State)

	// plain completion is still available
	result, err := learners.Toggle(context.Background(), "sophia", 6)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Learner.Points)
}

func TestTeachBackEvaluate(t *testing.T) {
	repo, _ := newTestRepo(t)
	judge := &scriptedJudge{answer: `{"passed":true,"feedback":"Nice!","score":12}`}
	svc := NewTeachBackService(judge, NewLearnerService(repo, nil), time.Millisecond, false)

	v, err := svc.Evaluate(context.Background(), teachback.Request{TaskTitle: "Do homework", Explanation: "anything"})
	require.NoError(t, err)
	assert.Equal(t, teachback.Verdict{Passed: true, Feedback: "Nice!", Score: 10}, v)
}

func TestTeachBackUsesCurrentTaskAfterRejection(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	catalog := NewCatalogService(repo)
	judge := &scriptedJudge{answer: `{"passed":false,"feedback":"Tell me more."}`}
	svc := NewTeachBackService(judge, learners, time.Millisecond, false)

	res, err := svc.Submit(ctx, "ella", 5, "It was about a girl and her cat")
	require.NoError(t, err)
	assert.Equal(t, "rejected", res.State)
	assert.Equal(t, "Read for 20 minutes", judge.lastRequest().TaskTitle)
	assert.Zero(t, openSessions(svc), "rejected session should be dropped")

	title := "Read a chapter aloud"
	subject := models.SubjectLanguage
	_, err = catalog.Update(ctx, 5, TaskUpdate{Title: &title, Subject: &subject})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "ella", 5, "It was about a girl and her cat")
	require.NoError(t, err)
	assert.Equal(t, title, judge.lastRequest().TaskTitle)
	assert.Equal(t, "language", judge.lastRequest().Subject)
	assert.Equal(t, int32(2), judge.calls.Load())
}

func TestTeachBackErroredSessionIsDropped(t *testing.T) {
	repo, _ := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	judge := &scriptedJudge{err: errors.New("connection reset")}
	svc := NewTeachBackService(judge, learners, time.Millisecond, false)

	_, err := svc.Submit(context.Background(), "ella", 5, "It was about a girl and her cat")
	var verr *teachback.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, openSessions(svc))
}
