package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/volunteer-match/internal/store"
	"github.com/sells-group/volunteer-match/pkg/notion"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) RecordAnswer(ctx context.Context, sessionID string, questionID int, payload any) error {
	args := m.Called(ctx, sessionID, questionID, payload)
	return args.Error(0)
}

func (m *mockStore) RecordResult(ctx context.Context, sessionID string, payload any) error {
	args := m.Called(ctx, sessionID, payload)
	return args.Error(0)
}

func (m *mockStore) ListHistory(ctx context.Context, filter store.HistoryFilter) ([]store.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Entry), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, r notion.ResultPage) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}
