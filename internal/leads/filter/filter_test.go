package filter

import (
	"testing"
	"time"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/platform/datefmt"
)

var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		{ID: "1", Name: "João  Dos-Santos!", Status: domain.StatusNew, CreatedAt: "2025-03-01T10:00:00Z"},
		{ID: "2", Name: "Maria Souza", Status: domain.StatusInContact, CreatedAt: "2025-02-15T10:00:00Z"},
		{ID: "3", Name: "Carlos Lima", Status: domain.StatusClosed, CreatedAt: "2025-03-02T10:00:00Z"},
		{ID: "4", Name: "Ana Paula", Status: domain.StatusLost, CreatedAt: "2025-03-03T10:00:00Z"},
		{ID: "5", Name: "Beatriz", Status: "Agendado - 10/03/2025", CreatedAt: ""},
		{ID: "6", Name: "Pedro", Status: "Agendado - 11/03/2025", CreatedAt: "2025-03-05"},
		{ID: "7", Name: "Rafael", Status: "Agendado - 99/99/9999", CreatedAt: "2025-03-06"},
		{ID: "8", Name: "Lúcia", Status: "", CreatedAt: "2025-01-20T08:00:00Z"},
	}
}

func ids(leads []domain.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func equalIDs(got []domain.Lead, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	engine := NewEngine(datefmt.NewFormatter(time.UTC))

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"none", None(), []string{"1", "2", "5", "6", "7", "8"}},
		{"zero value", Selection{}, []string{"1", "2", "5", "6", "7", "8"}},
		{"name normalized", ByName("joao dos santos"), []string{"1"}},
		{"name with accent mismatch", ByName("joãoz"), nil},
		{"name empty", ByName("  "), []string{"1", "2", "5", "6", "7", "8"}},
		{"name accent-insensitive", ByName("LUCIA"), []string{"8"}},
		{"month", ByMonth("2025-03"), []string{"1", "6", "7"}},
		{"month without match", ByMonth("2024-12"), nil},
		{"status exact", ByStatus(domain.StatusInContact), []string{"2"}},
		{"status empty matches unclassified", ByStatus(""), []string{"8"}},
		{"status terminal never returned", ByStatus(domain.StatusClosed), nil},
		{"scheduled today", ByStatus(ScheduledTodayTag), []string{"5"}},
		{"scheduled exact tag", ByStatus("Agendado - 11/03/2025"), []string{"6"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.Apply(testSnapshot(), tc.sel, testNow)
			if !equalIDs(got, tc.want...) {
				t.Fatalf("got %v, want %v", ids(got), tc.want)
			}
		})
	}
}

func TestApplyNeverReturnsTerminal(t *testing.T) {
	engine := NewEngine(datefmt.NewFormatter(time.UTC))
	selections := []Selection{
		None(), ByName(""), ByName("carlos"), ByName("ana"), ByMonth("2025-03"),
		ByStatus(domain.StatusClosed), ByStatus(domain.StatusLost), ByStatus(ScheduledTodayTag),
	}

	for _, sel := range selections {
		for _, lead := range engine.Apply(testSnapshot(), sel, testNow) {
			if domain.IsTerminal(lead.Status) {
				t.Fatalf("selection %v/%q returned terminal lead %s", sel.Kind(), sel.Value(), lead.ID)
			}
		}
	}
}

func TestSelectionHoldsSingleVariant(t *testing.T) {
	sel := ByName("ana")
	sel = ByMonth("2025-03")
	if sel.Kind() != KindMonth || sel.Value() != "2025-03" {
		t.Fatalf("unexpected selection %v %q", sel.Kind(), sel.Value())
	}
	if None().Value() != "" {
		t.Fatal("none must not carry a value")
	}
}
