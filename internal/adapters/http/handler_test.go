package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/config"
	"github.com/example/paddock/internal/ctxutil"
	"github.com/example/paddock/internal/metrics"
	"github.com/example/paddock/internal/ports/primary"
)

type mockStandings struct{ mock.Mock }

func (m *mockStandings) ComputeStandings(ctx context.Context, categoryID string) (*primary.Standings, error) {
	args := m.Called(ctx, categoryID)
	res, _ := args.Get(0).(*primary.Standings)
	return res, args.Error(1)
}

type mockAttribution struct{ mock.Mock }

func (m *mockAttribution) GroupPenaltiesByTeam(ctx context.Context) (*primary.PenaltyGrouping, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*primary.PenaltyGrouping)
	return res, args.Error(1)
}

type mockPenalties struct{ mock.Mock }

func (m *mockPenalties) CreatePenalty(ctx context.Context, req primary.CreatePenaltyRequest) (*primary.CreatePenaltyResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*primary.CreatePenaltyResponse)
	return res, args.Error(1)
}

func (m *mockPenalties) UpdatePenalty(ctx context.Context, req primary.UpdatePenaltyRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockPenalties) RemoveTargetFromPenalty(ctx context.Context, penaltyID string) error {
	return m.Called(ctx, penaltyID).Error(0)
}

func (m *mockPenalties) DeletePenalty(ctx context.Context, penaltyID string) error {
	return m.Called(ctx, penaltyID).Error(0)
}

func (m *mockPenalties) GetPenalty(ctx context.Context, penaltyID string) (*primary.Penalty, error) {
	args := m.Called(ctx, penaltyID)
	res, _ := args.Get(0).(*primary.Penalty)
	return res, args.Error(1)
}

type mockReconcile struct{ mock.Mock }

func (m *mockReconcile) Scan(ctx context.Context) (*primary.ReconcileReport, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*primary.ReconcileReport)
	return res, args.Error(1)
}

func (m *mockReconcile) Apply(ctx context.Context) (*primary.ReconcileReport, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*primary.ReconcileReport)
	return res, args.Error(1)
}

type fixture struct {
	app         *fiber.App
	standings   *mockStandings
	attribution *mockAttribution
	penalties   *mockPenalties
	reconcile   *mockReconcile
	metrics     *metrics.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		standings:   new(mockStandings),
		attribution: new(mockAttribution),
		penalties:   new(mockPenalties),
		reconcile:   new(mockReconcile),
		metrics:     metrics.New(),
	}
	log := zap.NewNop().Sugar()
	h := NewHandler(log, Services{
		Standings:   f.standings,
		Attribution: f.attribution,
		Penalties:   f.penalties,
		Reconcile:   f.reconcile,
	}, 0)
	f.app = NewServer(config.HTTPConfig{Addr: ":0"}, h, f.metrics.Registry(), f.metrics, log)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) ErrorBody {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Error
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetStandings(t *testing.T) {
	f := newFixture(t)
	f.standings.On("ComputeStandings", mock.Anything, "CAT-1").Return(&primary.Standings{
		CategoryID:  "CAT-1",
		Competitors: []primary.CompetitorTotal{{Position: 1, CompetitorID: "C1", Name: "Alice", Points: 25}},
		Teams:       []primary.TeamTotal{{Position: 1, TeamID: "T1", Name: "Scuderia", Points: 25}},
	}, nil)

	resp, raw := f.do(t, http.MethodGet, "/api/v1/categories/CAT-1/standings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got primary.Standings
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, "Alice", got.Competitors[0].Name)
	require.Equal(t, 25.0, got.Teams[0].Points)
}

func TestGetStandings_RequestIDReachesService(t *testing.T) {
	f := newFixture(t)
	f.standings.On("ComputeStandings", mock.MatchedBy(func(ctx context.Context) bool {
		return ctxutil.RequestID(ctx) == "req-42"
	}), "CAT-1").Return(&primary.Standings{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/CAT-1/standings", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "req-42", resp.Header.Get(fiber.HeaderXRequestID))
	f.standings.AssertExpectations(t)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: apperrors.Invalid("date", "must be YYYY-MM-DD"), wantStatus: http.StatusBadRequest, wantCode: CodeInvalid},
		{name: "not found", err: apperrors.NotFound("penalty", "PEN-1"), wantStatus: http.StatusNotFound, wantCode: CodeNotFound},
		{name: "conflict", err: apperrors.NewQueryError("penalties", "", apperrors.ErrConflict), wantStatus: http.StatusConflict, wantCode: CodeConflict},
		{name: "unavailable", err: apperrors.Unavailable("read penalties", io.ErrUnexpectedEOF), wantStatus: http.StatusServiceUnavailable, wantCode: CodeUnavailable},
		{name: "query", err: apperrors.NewQueryError("penalties", "", io.ErrUnexpectedEOF), wantStatus: http.StatusInternalServerError, wantCode: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.penalties.On("GetPenalty", mock.Anything, "PEN-1").Return(nil, tt.err)

			resp, raw := f.do(t, http.MethodGet, "/api/v1/penalties/PEN-1", "")
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Equal(t, tt.wantCode, decodeError(t, raw).Code)
		})
	}
}

func TestCreatePenalty(t *testing.T) {
	f := newFixture(t)
	want := primary.CreatePenaltyRequest{
		PenaltyData: primary.PenaltyData{RaceID: "R1", Date: "2024-03-01", Kind: "track limits"},
		Target:      primary.Target{Kind: primary.TargetKindTeam, ID: "T1"},
	}
	f.penalties.On("CreatePenalty", mock.Anything, want).Return(&primary.CreatePenaltyResponse{PenaltyID: "PEN-1"}, nil)

	resp, raw := f.do(t, http.MethodPost, "/api/v1/penalties",
		`{"race_id":"R1","date":"2024-03-01","kind":"track limits","target":{"kind":"team","id":"T1"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.JSONEq(t, `{"penalty_id":"PEN-1"}`, string(raw))
}

func TestCreatePenalty_MalformedBody(t *testing.T) {
	f := newFixture(t)
	resp, raw := f.do(t, http.MethodPost, "/api/v1/penalties", `{"race_id":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, CodeInvalid, decodeError(t, raw).Code)
	f.penalties.AssertNotCalled(t, "CreatePenalty", mock.Anything, mock.Anything)
}

func TestUpdatePenalty_WithoutTarget(t *testing.T) {
	f := newFixture(t)
	f.penalties.On("UpdatePenalty", mock.Anything, mock.MatchedBy(func(req primary.UpdatePenaltyRequest) bool {
		return req.PenaltyID == "PEN-7" && req.Target == nil && req.Kind == "speeding"
	})).Return(nil)

	resp, _ := f.do(t, http.MethodPut, "/api/v1/penalties/PEN-7",
		`{"race_id":"R1","date":"2024-03-01","kind":"speeding"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	f.penalties.AssertExpectations(t)
}

func TestRemoveTargetAndDelete(t *testing.T) {
	f := newFixture(t)
	f.penalties.On("RemoveTargetFromPenalty", mock.Anything, "PEN-1").Return(nil)
	f.penalties.On("DeletePenalty", mock.Anything, "PEN-1").Return(nil)

	resp, _ := f.do(t, http.MethodDelete, "/api/v1/penalties/PEN-1/target", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = f.do(t, http.MethodDelete, "/api/v1/penalties/PEN-1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	f.penalties.AssertExpectations(t)
}

func TestListPenalties_GapsOnRequest(t *testing.T) {
	grouping := func() *primary.PenaltyGrouping {
		return &primary.PenaltyGrouping{
			Teams: []primary.TeamPenalties{{TeamID: "T1", TeamName: "Scuderia", Penalties: []primary.AttributedPenalty{}}},
			Gaps:  []primary.AttributionGap{{PenaltyID: "PEN-9", Reason: "no_participation"}},
		}
	}
	f := newFixture(t)
	f.attribution.On("GroupPenaltiesByTeam", mock.Anything).Return(grouping(), nil).Once()
	f.attribution.On("GroupPenaltiesByTeam", mock.Anything).Return(grouping(), nil).Once()

	_, raw := f.do(t, http.MethodGet, "/api/v1/penalties", "")
	var plain primary.PenaltyGrouping
	require.NoError(t, json.Unmarshal(raw, &plain))
	require.Len(t, plain.Teams, 1)
	require.Empty(t, plain.Gaps)

	_, raw = f.do(t, http.MethodGet, "/api/v1/penalties?gaps=true", "")
	var withGaps primary.PenaltyGrouping
	require.NoError(t, json.Unmarshal(raw, &withGaps))
	require.Len(t, withGaps.Gaps, 1)
}

func TestGetReconcile(t *testing.T) {
	f := newFixture(t)
	f.reconcile.On("Scan", mock.Anything).Return(&primary.ReconcileReport{Untargeted: []string{"PEN-3"}}, nil)

	resp, raw := f.do(t, http.MethodGet, "/api/v1/reconcile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "PEN-3")
	f.reconcile.AssertNotCalled(t, "Apply", mock.Anything)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.standings.On("ComputeStandings", mock.Anything, "CAT-1").Return(&primary.Standings{}, nil)
	f.do(t, http.MethodGet, "/api/v1/categories/CAT-1/standings", "")

	resp, raw := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `paddock_http_requests_total{method="GET",route="/api/v1/categories/:id/standings",status_code="200"} 1`)
}
