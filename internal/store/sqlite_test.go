package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tars-systems/leadscout/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "leadscout.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close() //nolint:errcheck
	})

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)

	// Running again must not attempt to re-create tables.
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := model.ProductProfile{
		Description: "We provide ERP and automation software",
		Keywords:    []string{"software", "automation", "erp"},
		Location:    "Pune",
	}

	run, err := s.CreateRun(ctx, "proj-1", profile)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunPlanned, run.State)

	require.NoError(t, s.UpdateRunState(ctx, run.ID, model.RunDiscovered))
	require.NoError(t, s.UpdateRunState(ctx, run.ID, model.RunRanked))
	require.NoError(t, s.CompleteRun(ctx, run.ID, model.StatusOK, 4))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "proj-1", got.GroupKey)
	assert.Equal(t, model.RunDelivered, got.State)
	assert.Equal(t, model.StatusOK, got.Status)
	assert.Equal(t, 4, got.LeadCount)
	assert.Equal(t, profile, got.Profile)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	require.Error(t, err)
}

func TestSaveLeads_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	leads := []model.Candidate{
		{
			Name:              "FullMatch Technologies",
			Website:           "https://fullmatch.example",
			Phone:             "+91 20 1234 5678",
			Address:           "Baner, Pune",
			Rating:            4.6,
			Description:       "ERP, automation, and software for manufacturers",
			Email:             "sales@fullmatch.example",
			CEO:               &model.Person{Name: "Priya Sharma", ProfileURL: "https://www.linkedin.com/in/priya"},
			CompanyProfileURL: "https://www.linkedin.com/company/fullmatch",
			FitScore:          8,
			Reasons:           []string{`matches product keyword "erp"`, `matches product keyword "software"`},
		},
		{
			Name:        "OneTerm Systems",
			Description: "We sell software",
			FitScore:    2,
		},
	}

	require.NoError(t, s.SaveLeads(ctx, "proj-1", leads))

	got, err := s.ListLeads(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, leads[0], got[0])

	// Absent leadership stays absent, not an empty Person.
	assert.Nil(t, got[1].CEO)
	assert.Empty(t, got[1].Reasons)
}

func TestSaveLeads_ReplacesGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLeads(ctx, "proj-1", []model.Candidate{
		{Name: "Old Corp", FitScore: 3},
		{Name: "Stale Inc", FitScore: 1},
	}))
	require.NoError(t, s.SaveLeads(ctx, "proj-1", []model.Candidate{
		{Name: "Fresh Ltd", FitScore: 5},
	}))

	got, err := s.ListLeads(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fresh Ltd", got[0].Name)
}

func TestSaveLeads_GroupsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLeads(ctx, "proj-1", []model.Candidate{{Name: "A"}}))
	require.NoError(t, s.SaveLeads(ctx, "proj-2", []model.Candidate{{Name: "B"}, {Name: "C"}}))

	got1, err := s.ListLeads(ctx, "proj-1")
	require.NoError(t, err)
	got2, err := s.ListLeads(ctx, "proj-2")
	require.NoError(t, err)

	assert.Len(t, got1, 1)
	assert.Len(t, got2, 2)
}

func TestListLeads_PreservesRankOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	leads := []model.Candidate{
		{Name: "First", FitScore: 9},
		{Name: "Second", FitScore: 9},
		{Name: "Third", FitScore: 4},
	}
	require.NoError(t, s.SaveLeads(ctx, "proj-1", leads))

	got, err := s.ListLeads(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, leads[i].Name, c.Name)
	}
}

func TestListLeads_EmptyGroup(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListLeads(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, got)
}
