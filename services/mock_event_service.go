package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"equestrian-entries/models"
)

// Ensure MockEventService implements EventServiceInterface
var _ EventServiceInterface = (*MockEventService)(nil)

// MockEventService is a mock implementation for handler tests and extends `mock.Mock`
type MockEventService struct {
	mock.Mock
}

// FetchEvent (Mocked)
func (m *MockEventService) FetchEvent(ctx context.Context, eventID string) (*models.EventDefinition, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventDefinition), args.Error(1)
}
