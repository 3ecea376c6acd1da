package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"skaplSite/internal/feed"
	"skaplSite/internal/tasks"
)

type fakeRefresher struct {
	posts []feed.Post
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(context.Context) ([]feed.Post, error) {
	f.calls++
	return f.posts, f.err
}

func TestProcessTaskRefreshesCache(t *testing.T) {
	refresher := &fakeRefresher{posts: []feed.Post{{Title: "Grid-Scale Storage in 2024"}}}
	handler := NewFeedRefreshHandler(refresher, nil)

	task, err := tasks.NewFeedRefreshTask("corr-1")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("refresh calls = %d, want 1", refresher.calls)
	}
}

func TestProcessTaskPropagatesRefreshError(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("redis down")}
	handler := NewFeedRefreshHandler(refresher, nil)

	task, _ := tasks.NewFeedRefreshTask("corr-2")
	if err := handler.ProcessTask(context.Background(), task); err == nil {
		t.Fatalf("expected error to propagate for asynq retry")
	}
}

func TestProcessTaskRejectsBadPayload(t *testing.T) {
	handler := NewFeedRefreshHandler(&fakeRefresher{}, nil)

	task := asynq.NewTask(tasks.TypeFeedRefresh, []byte("{not json"))
	if err := handler.ProcessTask(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
