package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
)

// MockReservationService is a mock implementation of services.ReservationService
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) List(ctx context.Context, filter services.ReservationFilter) ([]models.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *MockReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) Create(ctx context.Context, payload services.ReservationPayload) (*models.Reservation, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) Update(ctx context.Context, id string, payload services.ReservationPayload) (*models.Reservation, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateStatus(ctx context.Context, id string, status string) (*models.Reservation, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

// MockTableService is a mock implementation of services.TableService
type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) List(ctx context.Context) ([]models.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Table), args.Error(1)
}

func (m *MockTableService) Get(ctx context.Context, id string) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *MockTableService) Create(ctx context.Context, payload services.TablePayload) (*models.Table, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *MockTableService) Seat(ctx context.Context, tableID, reservationID string) (*services.Seating, error) {
	args := m.Called(ctx, tableID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Seating), args.Error(1)
}

func (m *MockTableService) Finish(ctx context.Context, tableID string) (*services.Seating, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Seating), args.Error(1)
}

var (
	_ services.ReservationService = (*MockReservationService)(nil)
	_ services.TableService       = (*MockTableService)(nil)
)
