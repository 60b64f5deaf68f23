package port

import "context"

// UserInfo is the read-only projection of a platform user this core needs for
// display enrichment. The user store itself is owned elsewhere.
type UserInfo struct {
	ID        string
	Name      string
	Avatar    string
	Specialty string
}

// Directory exposes the external identity collaborators: display-name lookup
// and the patient→doctor assignment. Both are lookup-only contracts.
type Directory interface {
	// Lookup returns the user's display projection, or (nil, nil) when the
	// user is unknown.
	Lookup(ctx context.Context, userID string) (*UserInfo, error)

	// AssignedDoctor returns the doctor assigned to the patient, or "" when
	// no assignment exists.
	AssignedDoctor(ctx context.Context, patientID string) (string, error)
}
