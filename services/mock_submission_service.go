package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"equestrian-entries/models"
)

// Ensure MockSubmissionService implements SubmissionServiceInterface
var _ SubmissionServiceInterface = (*MockSubmissionService)(nil)

// MockSubmissionService is a mock implementation for handler tests and extends `mock.Mock`
type MockSubmissionService struct {
	mock.Mock
}

// Submit (Mocked)
func (m *MockSubmissionService) Submit(ctx context.Context, state *models.RegistrationState) (*SubmissionReceipt, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SubmissionReceipt), args.Error(1)
}
