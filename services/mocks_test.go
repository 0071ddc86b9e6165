package services

import (
	"context"

	"github.com/NomadCrew/feedback-service/types"
	"github.com/stretchr/testify/mock"
)

type MockFeedbackStore struct {
	mock.Mock
}

func (m *MockFeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	args := m.Called(ctx, fb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) ListFeedback(ctx context.Context, page types.FeedbackPage, sort types.FeedbackSort) ([]types.Feedback, error) {
	args := m.Called(ctx, page, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) CountFeedback(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockPinger struct {
	version string
	err     error
	path    string
}

func (p *mockPinger) Ping(ctx context.Context) (string, error) {
	return p.version, p.err
}

func (p *mockPinger) Path() string {
	return p.path
}
