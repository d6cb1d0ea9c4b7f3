package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/orgchart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExpression(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"pay", `"pay"*`},
		{"  speech   path ", `"speech"* AND "path"*`},
		{`say "hi"`, `"say"* AND """hi"""*`},
		{"OR", `"OR"*`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, matchExpression(tc.in), "input %q", tc.in)
	}
}

func setupSearch(t *testing.T) *SQLiteSearchRepo {
	t.Helper()
	database := testutil.NewTestDB(t)
	seedTree(t, database, testutil.NewSampleOrg())
	return NewSQLiteSearchRepo(database)
}

func TestSearchRepo_OfficesPrefixMatch(t *testing.T) {
	repo := setupSearch(t)

	results, err := repo.Offices(context.Background(), "spe")
	require.NoError(t, err)

	assert.ElementsMatch(t, []OfficeResult{
		{Name: "Special Education", Parent: "Division"},
		{Name: "Speech", Parent: "Special Education"},
	}, results)
}

func TestSearchRepo_OfficesAllTokensMustMatch(t *testing.T) {
	repo := setupSearch(t)

	results, err := repo.Offices(context.Background(), "spec edu")
	require.NoError(t, err)
	assert.Equal(t, []OfficeResult{{Name: "Special Education", Parent: "Division"}}, results)
}

func TestSearchRepo_RootHasNoParent(t *testing.T) {
	repo := setupSearch(t)

	results, err := repo.Offices(context.Background(), "div")
	require.NoError(t, err)
	assert.Equal(t, []OfficeResult{{Name: "Division", Parent: ""}}, results)
}

func TestSearchRepo_Positions(t *testing.T) {
	repo := setupSearch(t)

	results, err := repo.Positions(context.Background(), "payroll")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "Payroll Clerk", r.Title)
		assert.InDelta(t, 0.5, r.FTE, 1e-9)
		assert.Equal(t, "Payroll", r.Office)
		assert.False(t, r.IdeaFunded)
	}

	results, err = repo.Positions(context.Background(), "speech path")
	require.NoError(t, err)
	assert.Equal(t, []PositionResult{{Title: "Speech Pathologist", FTE: 0.8, Office: "Speech", IdeaFunded: true}}, results)
}

func TestSearchRepo_BlankAndHostileQueries(t *testing.T) {
	repo := setupSearch(t)
	ctx := context.Background()

	offices, err := repo.Offices(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, offices)

	// FTS5 operators and stray quotes are treated as literal text.
	offices, err = repo.Offices(ctx, `NEAR( "fin`)
	require.NoError(t, err)
	assert.Empty(t, offices)

	positions, err := repo.Positions(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestSearchRepo_FollowsRenames(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTree(t, database, testutil.NewSampleOrg())
	offices := NewSQLiteHierarchyRepo(database)
	repo := NewSQLiteSearchRepo(database)
	ctx := context.Background()

	id, err := offices.IDByName(ctx, "Budget")
	require.NoError(t, err)
	require.NoError(t, offices.SetName(ctx, id, "Planning"))

	results, err := repo.Offices(ctx, "budget")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = repo.Offices(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, []OfficeResult{{Name: "Planning", Parent: "Finance"}}, results)
}
