package models

// Snapshot is the complete state of a splitting session. A host application
// persists and restores sessions through this record alone.
type Snapshot struct {
	Items           []Item          `json:"items"`
	TaxRate         float64         `json:"taxRate"`
	Members         []string        `json:"members"`
	Assignments     Assignments     `json:"assignments"`
	SelectedMembers SelectedMembers `json:"selectedMembers"`
	RoundOffTotal   bool            `json:"roundOffTotal"`
}

// Subtotal returns Σ unitPrice × quantity over all items.
func (s *Snapshot) Subtotal() float64 {
	var subtotal float64
	for _, item := range s.Items {
		subtotal += item.Total()
	}
	return subtotal
}
