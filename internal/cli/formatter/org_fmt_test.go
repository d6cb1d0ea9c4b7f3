package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/repository"
	"github.com/alexanderramin/orgchart/internal/service"
	"github.com/alexanderramin/orgchart/internal/testutil"
	"github.com/alexanderramin/orgchart/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgTreeItems_PreorderWithLevels(t *testing.T) {
	items := OrgTreeItems(testutil.NewSampleOrg())

	require.Len(t, items, 11)
	assert.Equal(t, "Division", items[0].Title)
	assert.Equal(t, 0, items[0].Level)

	byTitle := map[string]TreeItem{}
	for _, it := range items {
		byTitle[it.Title] = it
	}
	assert.Equal(t, 3, byTitle["Custodial"].Level)
	assert.True(t, byTitle["Custodial"].IsLast)
	assert.Equal(t, "│  │  └─ ", byTitle["Custodial"].Guide)
	assert.Equal(t, "   ├─ ", byTitle["Speech"].Guide)
	assert.False(t, byTitle["Facilities"].IsLast)
	assert.True(t, byTitle["Transport"].IsLast)
	assert.True(t, byTitle["Special Education"].IsLast)
	assert.NotEmpty(t, byTitle["Speech"].Marker, "funded offices carry a marker")
	assert.Empty(t, byTitle["Operations"].Detail, "offices without positions have no badge")
}

func TestOrgTreeItems_Nil(t *testing.T) {
	assert.Nil(t, OrgTreeItems(nil))
	assert.Contains(t, FormatOrgTree(nil), "No organization loaded")
}

func TestFormatOffice(t *testing.T) {
	n := domain.NewNode("Speech")
	n.AddPosition("Speech Pathologist", 0.8, true)
	n.AddPosition("Aide", 1, false)

	got := stripANSI(FormatOffice(n, "Special Education"))
	assert.Contains(t, got, "reports to Special Education")
	assert.Contains(t, got, "Speech Pathologist  0.8 FTE  ◆ IDEA")
	assert.Contains(t, got, "Aide  1 FTE\n")

	empty := stripANSI(FormatOffice(domain.NewNode("Root"), ""))
	assert.NotContains(t, empty, "reports to")
	assert.Contains(t, empty, "No positions.")
}

func TestFormatOfficeResults(t *testing.T) {
	got := stripANSI(FormatOfficeResults("spe", []repository.OfficeResult{
		{Name: "Special Education", Parent: "Division"},
		{Name: "Division", Parent: ""},
	}))
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "OFFICE             PARENT", lines[0])
	assert.Equal(t, "Special Education  Division", lines[2])
	assert.Equal(t, "Division           (root)", lines[3])

	assert.Equal(t, `No offices match "zzz".`+"\n", stripANSI(FormatOfficeResults("zzz", nil)))
}

func TestFormatPositionResults_RightAlignsFTE(t *testing.T) {
	got := stripANSI(FormatPositionResults("s", []repository.PositionResult{
		{Title: "Speech Pathologist", FTE: 0.75, Office: "Speech", IdeaFunded: true},
		{Title: "Aide", FTE: 1, Office: "Speech"},
	}))
	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Speech Pathologist  0.75  Speech  ◆ IDEA", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Aide                   1  Speech"), "got %q", lines[3])

	assert.Contains(t, stripANSI(FormatPositionResults("nobody", nil)), `No positions match "nobody".`)
}

func TestFormatMissingData(t *testing.T) {
	got := stripANSI(FormatMissingData(&workbook.MissingData{
		Positions: []workbook.RowReport{{Row: 4, Data: []string{"Nurse", "1", "Ok", ""}}},
	}))

	assert.Contains(t, got, "Nothing was imported")
	assert.Contains(t, got, "POSITIONS SHEET")
	assert.NotContains(t, got, "HIERARCHY SHEET")
	assert.Contains(t, got, "  4  Nurse | 1 | Ok | ∅")
}

func TestFormatStats(t *testing.T) {
	got := stripANSI(FormatStats(&service.Stats{Offices: 11, Positions: 10, TotalFTE: 9.55, Funded: 4}))

	assert.Contains(t, got, "ORGANIZATION")
	assert.Contains(t, got, "Offices      11")
	assert.Contains(t, got, "Total FTE    9.55")
	assert.Contains(t, got, "40%")

	none := stripANSI(FormatStats(&service.Stats{Offices: 1}))
	assert.Contains(t, none, "0%")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 office", Plural(1, "office", "offices"))
	assert.Equal(t, "0 offices", Plural(0, "office", "offices"))
	assert.Equal(t, "3 offices", Plural(3, "office", "offices"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Finance", 10, "Finance"},
		{"Finance", 7, "Finance"},
		{"Finance", 4, "Fin…"},
		{"Finance", 1, "…"},
		{"Finance", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestRenderShare(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "[░░░░] 0%"},
		{0.5, "[██░░] 50%"},
		{1, "[████] 100%"},
		{1.7, "[████] 100%"},
		{-1, "[░░░░] 0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripANSI(RenderShare(tt.pct, 4)))
	}
}

func TestFormatFTE(t *testing.T) {
	assert.Equal(t, "1", FormatFTE(1))
	assert.Equal(t, "0.5", FormatFTE(0.5))
	assert.Equal(t, "2.75", FormatFTE(2.75))
}

func TestFormatFTE_RoundsSums(t *testing.T) {
	sum := 0.0
	for _, v := range []float64{1, 1, 0.5, 0.5, 1, 1, 0.75, 1, 1, 0.8, 1} {
		sum += v
	}
	assert.Equal(t, "9.55", FormatFTE(sum))
	assert.Equal(t, "0.33", FormatFTE(1.0/3))
}
