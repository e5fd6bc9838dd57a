package session

import (
	"testing"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/platform/apperr"
)

func snapshot() domain.Snapshot {
	return domain.Snapshot{
		{ID: "empty", Status: domain.StatusNew, Observacao: "  "},
		{ID: "noted", Status: domain.StatusInContact, Observacao: "ligou ontem", Agendamento: "2025-03-10"},
	}
}

func TestRebuildInitialState(t *testing.T) {
	s := NewStore()
	s.Rebuild(snapshot())

	empty, ok := s.Get("empty")
	if !ok || !empty.EditingObservation || empty.Locked {
		t.Fatalf("unexpected state for blank note %+v", empty)
	}
	noted, _ := s.Get("noted")
	if noted.EditingObservation || !noted.Locked || noted.DraftAppointment != "" {
		t.Fatalf("unexpected state for existing note %+v", noted)
	}
	if !s.HasUnsavedEdits() {
		t.Fatal("a blank note opens its editor, which counts as unsaved")
	}
}

func TestAlterIsOnlyWayIntoEditing(t *testing.T) {
	s := NewStore()
	s.Rebuild(snapshot())

	if err := s.SetDraft("noted", "ignored", ""); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	st, _ := s.Get("noted")
	if st.DraftObservation != "ligou ontem" {
		t.Fatalf("observation draft changed outside editing: %q", st.DraftObservation)
	}

	if err := s.Alter("noted"); err != nil {
		t.Fatalf("Alter: %v", err)
	}
	if err := s.SetDraft("noted", "retornar sexta", "2025-03-10"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	st, _ = s.Get("noted")
	if !st.EditingObservation || st.DraftObservation != "retornar sexta" {
		t.Fatalf("unexpected state %+v", st)
	}
	if !s.HasUnsavedEdits() {
		t.Fatal("expected unsaved edits")
	}
}

func TestMarkSavedLeavesEditing(t *testing.T) {
	s := NewStore()
	s.Rebuild(snapshot())
	_ = s.SetDraft("empty", "primeiro contato", "")

	if err := s.MarkSaved("empty", "primeiro contato"); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
	st, _ := s.Get("empty")
	if st.EditingObservation || st.Dirty() {
		t.Fatalf("unexpected state after save %+v", st)
	}
	if s.HasUnsavedEdits() {
		t.Fatal("no unsaved edits expected after save")
	}
}

func TestRebuildPreservesDirtyDraftsAndDropsMissingIDs(t *testing.T) {
	s := NewStore()
	s.Rebuild(snapshot())
	_ = s.SetDraft("empty", "rascunho", "2025-04-01")

	next := domain.Snapshot{
		{ID: "empty", Status: domain.StatusNew},
		{ID: "new", Status: domain.StatusNew, Observacao: "x"},
	}
	s.Rebuild(next)

	if _, ok := s.Get("noted"); ok {
		t.Fatal("state for vanished id must be discarded")
	}
	st, _ := s.Get("empty")
	if st.DraftObservation != "rascunho" || st.DraftAppointment != "2025-04-01" || !st.EditingObservation {
		t.Fatalf("dirty drafts lost on rebuild: %+v", st)
	}
	if s.Len() != 2 {
		t.Fatalf("expected one record per lead, got %d", s.Len())
	}
}

func TestSubscribeSeesFlips(t *testing.T) {
	s := NewStore()
	var seen []bool
	unsubscribe := s.Subscribe(func(dirty bool) { seen = append(seen, dirty) })

	s.Rebuild(snapshot())
	_ = s.SetDraft("empty", "a", "")
	_ = s.SetDraft("empty", "ab", "")
	_ = s.MarkSaved("empty", "ab")

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("unexpected notifications %v", seen)
	}

	unsubscribe()
	_ = s.Alter("noted")
	_ = s.SetDraft("noted", "novo texto", "")
	if len(seen) != 2 {
		t.Fatalf("observer called after unsubscribe: %v", seen)
	}
}

func TestUnknownLead(t *testing.T) {
	s := NewStore()
	if err := s.Alter("missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppointmentDraftMakesSessionDirty(t *testing.T) {
	s := NewStore()
	s.Rebuild(snapshot())

	if err := s.SetDraft("noted", "", "2025-04-02"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	st, _ := s.Get("noted")
	if st.EditingObservation || !st.Dirty() {
		t.Fatalf("expected dirty appointment draft without editing, got %+v", st)
	}

	s.Rebuild(snapshot())
	st, _ = s.Get("noted")
	if st.DraftAppointment != "2025-04-02" || st.EditingObservation {
		t.Fatalf("appointment draft not preserved: %+v", st)
	}
}

func TestOpenEditorCountsAsUnsaved(t *testing.T) {
	s := NewStore()
	s.Rebuild(domain.Snapshot{
		{ID: "blank", Status: domain.StatusNew},
		{ID: "noted", Status: domain.StatusInContact, Observacao: "ligou ontem"},
	})

	blank, _ := s.Get("blank")
	if !blank.EditingObservation || !blank.Dirty() {
		t.Fatalf("blank note editor must count as unsaved: %+v", blank)
	}
	if !s.HasUnsavedEdits() {
		t.Fatal("expected unsaved edits while a blank note is being edited")
	}

	if err := s.MarkSaved("blank", "primeiro contato"); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
	if s.HasUnsavedEdits() {
		t.Fatal("no editor open after save")
	}

	if err := s.Alter("noted"); err != nil {
		t.Fatalf("Alter: %v", err)
	}
	noted, _ := s.Get("noted")
	if !noted.Dirty() || noted.DraftObservation != "ligou ontem" {
		t.Fatalf("altered note must count as unsaved before typing: %+v", noted)
	}
	if !s.HasUnsavedEdits() {
		t.Fatal("expected unsaved edits after Alter")
	}
}

func TestRebuildKeepsAlteredEditorOpen(t *testing.T) {
	s := NewStore()
	s.Rebuild(snapshot())

	if err := s.Alter("noted"); err != nil {
		t.Fatalf("Alter: %v", err)
	}
	if err := s.SetDraft("noted", "ligou ontem, retornar", ""); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}

	s.Rebuild(snapshot())
	st, _ := s.Get("noted")
	if !st.EditingObservation || st.DraftObservation != "ligou ontem, retornar" {
		t.Fatalf("altered editor closed by rebuild: %+v", st)
	}

	if err := s.SetDraft("noted", "ligou ontem", ""); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	s.Rebuild(snapshot())
	st, _ = s.Get("noted")
	if !st.EditingObservation {
		t.Fatalf("editor with unchanged text closed by rebuild: %+v", st)
	}
}
