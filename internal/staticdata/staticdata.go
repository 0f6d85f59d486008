// Package staticdata supplies the data snapshot every embed render consumes:
// the client identity, the company list, and the team member list. Providers
// are pluggable; the dispatcher fetches a fresh snapshot per call.
package staticdata

import "context"

// Client is the identity shown in user-facing embeds.
type Client struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// Company is one entry in the company directory. Exactly one company should
// carry IsCurrent in a well-formed dataset, though providers do not enforce it.
type Company struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsCurrent bool   `json:"isCurrent"`
}

// TeamMember is one entry in the member list.
type TeamMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Snapshot is an immutable view handed to a single render. Providers must
// return a fresh copy per call so renderers cannot mutate shared state.
type Snapshot struct {
	Client      Client       `json:"client"`
	Companies   []Company    `json:"companies"`
	TeamMembers []TeamMember `json:"teamMembers"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{Client: s.Client}
	if s.Companies != nil {
		out.Companies = make([]Company, len(s.Companies))
		copy(out.Companies, s.Companies)
	}
	if s.TeamMembers != nil {
		out.TeamMembers = make([]TeamMember, len(s.TeamMembers))
		copy(out.TeamMembers, s.TeamMembers)
	}
	return out
}

// CurrentCompany returns the company marked current, if any.
func (s *Snapshot) CurrentCompany() (Company, bool) {
	for _, c := range s.Companies {
		if c.IsCurrent {
			return c, true
		}
	}
	return Company{}, false
}

// Provider supplies snapshots. Implementations must be safe for concurrent use.
type Provider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
