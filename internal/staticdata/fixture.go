package staticdata

import "context"

// Fixture serves a fixed demo dataset. It backs local development and the
// hosted sandbox, where no backend data service is wired in.
type Fixture struct {
	snapshot Snapshot
}

// NewFixture creates the default fixture provider.
func NewFixture() *Fixture {
	return &Fixture{snapshot: Snapshot{
		Client: Client{
			Name:   "Avery Collins",
			Email:  "avery.collins@example.com",
			Mobile: "+1 555 010 4477",
		},
		Companies: []Company{
			{ID: "cmp-001", Name: "Northwind Traders", IsCurrent: true},
			{ID: "cmp-002", Name: "Fabrikam Logistics"},
			{ID: "cmp-003", Name: "Contoso Retail"},
		},
		TeamMembers: []TeamMember{
			{ID: "usr-101", Name: "Priya Raman", Email: "priya.raman@example.com", Role: "admin"},
			{ID: "usr-102", Name: "Jonas Weber", Email: "jonas.weber@example.com", Role: "member"},
			{ID: "usr-103", Name: "Mei Tanaka", Email: "mei.tanaka@example.com", Role: "member"},
			{ID: "usr-104", Name: "Sam Okafor", Email: "sam.okafor@example.com", Role: "viewer"},
		},
	}}
}

// NewFixtureWith creates a fixture provider serving the given dataset.
func NewFixtureWith(s Snapshot) *Fixture {
	return &Fixture{snapshot: s}
}

// Snapshot returns a fresh copy of the fixture dataset.
func (f *Fixture) Snapshot(_ context.Context) (*Snapshot, error) {
	return f.snapshot.Clone(), nil
}
