package session

import (
	"encoding/json"
	"errors"
)

// PrincipalKey is the session key holding the authenticated principal.
const PrincipalKey = "user"

// StatusActive is the account status of a principal allowed through the auth gate.
const StatusActive = "ACTIF"

// Principal is the authenticated user record held in session state.
type Principal struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Telephone     string `json:"telephone,omitempty"`
	Role          string `json:"role,omitempty"`
	AccountStatus string `json:"account_status,omitempty"`
}

// HasIdentity reports whether the principal carries a non-empty identity.
func (p Principal) HasIdentity() bool {
	return p.ID != ""
}

// IsActive reports whether the account may use authenticated pages.
// An empty status is treated as active: older sessions predate the field.
func (p Principal) IsActive() bool {
	return p.AccountStatus == "" || p.AccountStatus == StatusActive
}

// principalFrom decodes a stored principal. Values read back from a serializing
// store arrive as map[string]any rather than Principal.
func principalFrom(v any) (Principal, error) {
	switch p := v.(type) {
	case Principal:
		return p, nil
	case *Principal:
		if p == nil {
			return Principal{}, ErrNotFound
		}
		return *p, nil
	case map[string]any:
		data, err := json.Marshal(p)
		if err != nil {
			return Principal{}, errors.Join(ErrUnmarshal, err)
		}
		var out Principal
		if err := json.Unmarshal(data, &out); err != nil {
			return Principal{}, errors.Join(ErrUnmarshal, err)
		}
		return out, nil
	default:
		return Principal{}, ErrTypeMismatch
	}
}
