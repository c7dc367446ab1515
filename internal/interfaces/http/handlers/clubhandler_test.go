package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clubdto "github.com/servis-automat/servis/internal/application/club/dto"
	reportdto "github.com/servis-automat/servis/internal/application/report/dto"
	"github.com/servis-automat/servis/internal/interfaces/http/handlers/testutil"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
)

type mockListClubsUC struct {
	executeFunc func(ctx context.Context, identity authorization.Identity) ([]*clubdto.ClubDTO, error)
}

func (m *mockListClubsUC) Execute(ctx context.Context, identity authorization.Identity) ([]*clubdto.ClubDTO, error) {
	return m.executeFunc(ctx, identity)
}

type mockListMachinesUC struct {
	executeFunc func(ctx context.Context, identity authorization.Identity, clubID uint) ([]*clubdto.MachineDTO, error)
}

func (m *mockListMachinesUC) Execute(ctx context.Context, identity authorization.Identity, clubID uint) ([]*clubdto.MachineDTO, error) {
	return m.executeFunc(ctx, identity, clubID)
}

type mockMachineLabelUC struct {
	executeFunc func(ctx context.Context, identity authorization.Identity, machineID uint) (*clubdto.MachineLabelDTO, error)
}

func (m *mockMachineLabelUC) Execute(ctx context.Context, identity authorization.Identity, machineID uint) (*clubdto.MachineLabelDTO, error) {
	return m.executeFunc(ctx, identity, machineID)
}

type mockWeeklyReportUC struct {
	executeFunc func(ctx context.Context, identity authorization.Identity) (*reportdto.WeeklyReportDTO, error)
}

func (m *mockWeeklyReportUC) Execute(ctx context.Context, identity authorization.Identity) (*reportdto.WeeklyReportDTO, error) {
	return m.executeFunc(ctx, identity)
}

type mockSendWeeklyReportUC struct {
	executeFunc func(ctx context.Context, identity authorization.Identity) (*reportdto.SendWeeklyReportResult, error)
}

func (m *mockSendWeeklyReportUC) Execute(ctx context.Context, identity authorization.Identity) (*reportdto.SendWeeklyReportResult, error) {
	return m.executeFunc(ctx, identity)
}

// =====================================================================
// ClubHandler
// =====================================================================

func TestClubHandler_ListClubs(t *testing.T) {
	handler := NewClubHandler(&mockListClubsUC{
		executeFunc: func(_ context.Context, identity authorization.Identity) ([]*clubdto.ClubDTO, error) {
			return []*clubdto.ClubDTO{{ID: identity.ClubIDValue(), Name: "Centar"}}, nil
		},
	}, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/clubs", nil)
	testutil.SetIdentity(c, testutil.Club(9, 3))

	handler.ListClubs(c)

	testutil.RequireStatus(t, w, http.StatusOK)

	clubs := testutil.DecodeData[[]clubdto.ClubDTO](t, w)
	require.Len(t, clubs, 1)
	assert.Equal(t, uint(3), clubs[0].ID)
}

func TestClubHandler_ListMachines(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		err        error
		wantStatus int
	}{
		{name: "own club", param: "3", wantStatus: http.StatusOK},
		{name: "other club", param: "4", err: errors.NewForbiddenError("club access denied"), wantStatus: http.StatusForbidden},
		{name: "unknown club", param: "99", err: errors.NewNotFoundError("club not found"), wantStatus: http.StatusNotFound},
		{name: "bad id", param: "abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewClubHandler(nil, &mockListMachinesUC{
				executeFunc: func(_ context.Context, _ authorization.Identity, clubID uint) ([]*clubdto.MachineDTO, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return []*clubdto.MachineDTO{{ID: 12, ClubID: clubID, Number: "12", Model: "EGT"}}, nil
				},
			}, nil, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodGet, "/clubs/"+tt.param+"/machines", nil)
			testutil.SetIdentity(c, testutil.Club(9, 3))
			testutil.SetURLParam(c, "id", tt.param)

			handler.ListMachines(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestClubHandler_MachineLabel_StreamsPNG(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	handler := NewClubHandler(nil, nil, &mockMachineLabelUC{
		executeFunc: func(_ context.Context, _ authorization.Identity, machineID uint) (*clubdto.MachineLabelDTO, error) {
			return &clubdto.MachineLabelDTO{MachineID: machineID, Filename: "machine-12.png", PNG: png}, nil
		},
	}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/machines/12/label", nil)
	testutil.SetIdentity(c, testutil.Admin(1))
	testutil.SetURLParam(c, "id", "12")

	handler.MachineLabel(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=machine-12.png", w.Header().Get("Content-Disposition"))
	assert.Equal(t, png, w.Body.Bytes())
}

func TestClubHandler_MachineLabel_NotFound(t *testing.T) {
	handler := NewClubHandler(nil, nil, &mockMachineLabelUC{
		executeFunc: func(context.Context, authorization.Identity, uint) (*clubdto.MachineLabelDTO, error) {
			return nil, errors.NewNotFoundError("machine not found")
		},
	}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/machines/12/label", nil)
	testutil.SetIdentity(c, testutil.Admin(1))
	testutil.SetURLParam(c, "id", "12")

	handler.MachineLabel(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

// =====================================================================
// ReportHandler
// =====================================================================

func TestReportHandler_WeeklyReport(t *testing.T) {
	end := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	handler := NewReportHandler(&mockWeeklyReportUC{
		executeFunc: func(context.Context, authorization.Identity) (*reportdto.WeeklyReportDTO, error) {
			return &reportdto.WeeklyReportDTO{PeriodStart: end.AddDate(0, 0, -7), PeriodEnd: end, Total: 4}, nil
		},
	}, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/reports/weekly", nil)
	testutil.SetIdentity(c, testutil.Admin(1))

	handler.WeeklyReport(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandler_WeeklyReport_ForbiddenForTechnician(t *testing.T) {
	handler := NewReportHandler(&mockWeeklyReportUC{
		executeFunc: func(context.Context, authorization.Identity) (*reportdto.WeeklyReportDTO, error) {
			return nil, errors.NewForbiddenError("only admins can view reports")
		},
	}, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/reports/weekly", nil)
	testutil.SetIdentity(c, testutil.Technician(5))

	handler.WeeklyReport(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportHandler_SendWeeklyReport(t *testing.T) {
	handler := NewReportHandler(nil, &mockSendWeeklyReportUC{
		executeFunc: func(context.Context, authorization.Identity) (*reportdto.SendWeeklyReportResult, error) {
			return &reportdto.SendWeeklyReportResult{Recipients: 2, Sent: 1, Failed: []string{"b@servis.rs"}}, nil
		},
	}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/reports/weekly/send", nil)
	testutil.SetIdentity(c, testutil.Admin(1))

	handler.SendWeeklyReport(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var result reportdto.SendWeeklyReportResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"b@servis.rs"}, result.Failed)
}
