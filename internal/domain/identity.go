package domain

import "time"

// Role is the marketplace role assigned by the application backend.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// NormalizeRole maps backend role spellings onto the canonical set.
// The backend historically calls buyers "user".
func NormalizeRole(s string) Role {
	switch s {
	case "agent":
		return RoleAgent
	case "admin":
		return RoleAdmin
	default:
		return RoleBuyer
	}
}

// ProviderIdentity is what the external identity provider knows about a
// signed-in user. It carries no role or verification data.
type ProviderIdentity struct {
	ProviderID   string `json:"providerId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoURL,omitempty"`
	IDToken      string `json:"-"`
	RefreshToken string `json:"-"`
}

// Identity is the authenticated user's profile and role as understood by
// this gateway. Until backend reconciliation succeeds, role/verified/flagged
// hold provisional defaults.
type Identity struct {
	ProviderID  string `json:"providerId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Role        Role   `json:"role"`
	Verified    bool   `json:"verified"`
	Flagged     bool   `json:"isFraud"`
}

// ProvisionalIdentity builds the optimistic identity shown immediately
// after provider sign-in, before the backend has answered.
func ProvisionalIdentity(p *ProviderIdentity) Identity {
	name := p.DisplayName
	if name == "" {
		name = localPart(p.Email)
	}
	return Identity{
		ProviderID:  p.ProviderID,
		Email:       p.Email,
		DisplayName: name,
		PhotoURL:    p.PhotoURL,
		Role:        RoleBuyer,
		Verified:    false,
		Flagged:     false,
	}
}

// Merge overlays backend-authoritative fields onto the current identity.
// Backend values win; empty backend fields keep the current value.
func (id Identity) Merge(backend Identity) Identity {
	merged := id
	if backend.ProviderID != "" {
		merged.ProviderID = backend.ProviderID
	}
	if backend.Email != "" {
		merged.Email = backend.Email
	}
	if backend.DisplayName != "" {
		merged.DisplayName = backend.DisplayName
	}
	if backend.PhotoURL != "" {
		merged.PhotoURL = backend.PhotoURL
	}
	merged.Role = backend.Role
	if merged.Role == "" {
		merged.Role = RoleBuyer
	}
	merged.Verified = backend.Verified
	merged.Flagged = backend.Flagged
	return merged
}

func localPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}

// TokenPair holds the two credentials a session may carry. The backend
// token, once issued, takes precedence for authorizing upstream requests.
type TokenPair struct {
	ProviderToken string `json:"providerToken,omitempty"`
	BackendToken  string `json:"backendToken,omitempty"`
}

// Bearer returns the credential to attach to an upstream request:
// backend token if present, else provider token, else empty. Pure read.
func (t TokenPair) Bearer() string {
	if t.BackendToken != "" {
		return t.BackendToken
	}
	return t.ProviderToken
}

// SessionPhase says whether the identity is provisional or confirmed by
// the backend.
type SessionPhase string

const (
	// PhaseOptimistic: provider sign-in succeeded, backend reconciliation
	// has not. A valid resting state.
	PhaseOptimistic SessionPhase = "optimistic"
	// PhaseReconciled: the backend confirmed role, verification and fraud
	// status and issued a session token.
	PhaseReconciled SessionPhase = "reconciled"
)

// Session is the durable record for one signed-in client session.
// Identity and tokens are written together; sign-out removes the row.
type Session struct {
	ID        string       `json:"id"`
	Identity  Identity     `json:"user"`
	Phase     SessionPhase `json:"phase"`
	Tokens    TokenPair    `json:"tokens"`
	UpdatedAt time.Time    `json:"updatedAt"`

	// RefreshToken lets the gateway force-mint a fresh provider token.
	// Never serialized to clients.
	RefreshToken string `json:"-"`
}
