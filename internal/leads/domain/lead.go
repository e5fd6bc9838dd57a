// Package domain provides core business rules for the leads bounded context:
// the lead snapshot record and the status lifecycle.
package domain

// Lead is one entry of the snapshot supplied by the lead store. The queue
// treats it as read-only.
type Lead struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	Observacao    string `json:"observacao,omitempty"`
	Agendamento   string `json:"agendamento,omitempty"`
	Responsavel   string `json:"responsavel,omitempty"`
	ResponsavelID string `json:"responsavelId,omitempty"`
	Telefone      string `json:"telefone,omitempty"`
}

// Snapshot is the full list of leads as last fetched. A refresh replaces it
// wholesale; it is never patched in place.
type Snapshot []Lead

// Find returns the lead with id.
func (s Snapshot) Find(id string) (Lead, bool) {
	for _, lead := range s {
		if lead.ID == id {
			return lead, true
		}
	}
	return Lead{}, false
}

// Clone returns a copy whose backing array is not shared with s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}
