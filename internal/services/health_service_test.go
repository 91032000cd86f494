package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"basketpulse/internal/shared/testutil"
)

type mockDatasetProbe struct {
	mock.Mock
}

func (m *mockDatasetProbe) CheckDataset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockDatasetProbe) Status(ctx context.Context) DatasetStatus {
	return m.Called(ctx).Get(0).(DatasetStatus)
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		checkErr   error
		wantStatus string
	}{
		{"dataset present", nil, "ready"},
		{"dataset missing", errors.New("open orders.csv: no such file"), "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			probe := new(mockDatasetProbe)
			probe.On("CheckDataset", mock.Anything).Return(tt.checkErr)
			probe.On("Status", mock.Anything).Return(DatasetStatus{})

			hs := NewHealthService("1.0.0", probe, logger)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Contains(t, status.Services, "dataset")
			assert.Contains(t, status.Services, "cache")
			probe.AssertExpectations(t)
		})
	}
}

func TestHealthService_NoProbe(t *testing.T) {
	hs := NewHealthService("1.0.0", nil, nil)

	assert.Equal(t, "not_ready", hs.ReadinessCheck(context.Background()).Status)
	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)
}

func TestHealthService_LivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.2.3", nil, nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	assert.Equal(t, "1.2.3", hs.Version()["version"])
}
