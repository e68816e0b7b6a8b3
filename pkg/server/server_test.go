package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/api"
	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/hierarchy"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) Regions(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func (m *mockExplorer) RegionContributions(
	ctx context.Context,
	period domain.TimePeriod,
) ([]domain.Share, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Share), args.Error(1)
}

func (m *mockExplorer) RiverContributions(
	ctx context.Context,
	period domain.TimePeriod,
	region string,
) ([]domain.Share, error) {
	args := m.Called(ctx, period, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Share), args.Error(1)
}

func (m *mockExplorer) RiverDaily(
	ctx context.Context,
	period domain.TimePeriod,
	river string,
) ([]domain.DailyValue, error) {
	args := m.Called(ctx, period, river)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyValue), args.Error(1)
}

func (m *mockExplorer) RegionDaily(
	ctx context.Context,
	period domain.TimePeriod,
	region string,
) ([]domain.DailyValue, error) {
	args := m.Called(ctx, period, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyValue), args.Error(1)
}

func (m *mockExplorer) ReservoirShares(ctx context.Context, region string) ([]domain.Share, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Share), args.Error(1)
}

func (m *mockExplorer) CapacityView(
	ctx context.Context,
	expanded hierarchy.Expansion,
) ([]domain.HierarchyRow, error) {
	args := m.Called(ctx, expanded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HierarchyRow), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockExp := new(mockExplorer)
	sessions := hierarchy.NewSessionManager()

	config := Config{
		Addr:            ":8080",
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Explorer: mockExp,
			Sessions: sessions,
			Logger:   logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name: "GetRegions",
			path: "/api/v1/regions",
			setupMocks: func() {
				mockExp.On("RegionContributions", mock.Anything, mock.Anything).
					Return([]domain.Share{
						{Name: "Andina", Total: 80, Percentage: 80},
						{Name: "Caribe", Total: 20, Percentage: 20},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.Share{
				{Name: "Andina", Total: 80, Percentage: 80},
				{Name: "Caribe", Total: 20, Percentage: 20},
			},
			parseResponse: unmarshalResponse[[]api.Share](),
		},
		{
			name: "GetRegionRivers",
			path: "/api/v1/regions/Andina/rivers",
			setupMocks: func() {
				mockExp.On("RiverContributions", mock.Anything, mock.Anything, "Andina").
					Return([]domain.Share{{Name: "RIO A", Total: 30, Percentage: 100}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.Share{{Name: "RIO A", Total: 30, Percentage: 100}},
			parseResponse:  unmarshalResponse[[]api.Share](),
		},
		{
			name: "GetRiverDaily",
			path: "/api/v1/rivers/RIO%20A/daily?from=2024-01-01&to=2024-01-31",
			setupMocks: func() {
				from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
				mockExp.On("RiverDaily", mock.Anything, domain.Period(from, to), "RIO A").
					Return([]domain.DailyValue{{Date: "2024-01-01", Value: 10, Percentage: 100}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.DailyValue{{Date: "2024-01-01", Value: 10, Percentage: 100}},
			parseResponse:  unmarshalResponse[[]api.DailyValue](),
		},
		{
			name: "GetReservoirs",
			path: "/api/v1/reservoirs",
			setupMocks: func() {
				mockExp.On("ReservoirShares", mock.Anything, "").
					Return([]domain.Share{{Name: "EMBALSE A", Total: 70, Percentage: 70}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.Share{{Name: "EMBALSE A", Total: 70, Percentage: 70}},
			parseResponse:  unmarshalResponse[[]api.Share](),
		},
		{
			name:           "Health",
			path:           "/health",
			setupMocks:     func() {},
			expectedStatus: http.StatusOK,
			expected:       map[string]interface{}{"status": "ok"},
			parseResponse:  unmarshalResponse[map[string]interface{}](),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()
			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestWebAPI_SessionLifecycle(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	view := []domain.HierarchyRow{
		{Kind: domain.RowRegion, Name: "Andina", Total: 70, Percentage: 70},
		{Kind: domain.RowTotal, Name: "Total", Total: 100, Percentage: 100},
	}
	mockExp := new(mockExplorer)
	mockExp.On("CapacityView", mock.Anything, mock.Anything).Return(view, nil)

	config := Config{
		AllowedOrigins: []string{"*"},
		Dependencies: Dependencies{
			Explorer: mockExp,
			Sessions: hierarchy.NewSessionManager(),
			Logger:   logger,
		},
	}
	testServer := httptest.NewServer(ConfigureRouter(config))
	defer testServer.Close()

	resp, err := http.Post(testServer.URL+"/api/v1/capacity/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session api.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	require.NotEmpty(t, session.Id)

	viewResp, err := http.Get(testServer.URL + "/api/v1/capacity/sessions/" + session.Id + "/view")
	require.NoError(t, err)
	defer viewResp.Body.Close()
	assert.Equal(t, http.StatusOK, viewResp.StatusCode)

	var rows []api.HierarchyRow
	require.NoError(t, json.NewDecoder(viewResp.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, api.RowTotal, rows[1].Kind)

	toggleResp, err := http.Post(
		testServer.URL+"/api/v1/capacity/sessions/"+session.Id+"/toggle",
		"application/json",
		bytes.NewBufferString(`{"region":"Andina"}`),
	)
	require.NoError(t, err)
	defer toggleResp.Body.Close()
	assert.Equal(t, http.StatusOK, toggleResp.StatusCode)

	missingResp, err := http.Get(testServer.URL + "/api/v1/capacity/sessions/missing/view")
	require.NoError(t, err)
	defer missingResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
