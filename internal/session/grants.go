package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/go-playground/validator/v10"
)

// StorageKey is the fixed key the grant set is persisted under for a session.
const StorageKey = "userPermissions"

var (
	ErrNotFound          = errors.New("session: grant set not found")
	ErrMalformedGrantSet = errors.New("session: malformed grant set")
)

var validate = validator.New()

// Decode is the boundary check for persisted grant sets. Anything that is not
// an object with a roles array and a privileges array, where every role has a
// slug and every privilege has a key and an actions array of non-empty codes,
// is reported as ErrMalformedGrantSet.
func Decode(raw []byte) (access.GrantSet, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return access.GrantSet{}, fmt.Errorf("%w: empty payload", ErrMalformedGrantSet)
	}

	var grants access.GrantSet
	if err := json.Unmarshal(raw, &grants); err != nil {
		return access.GrantSet{}, fmt.Errorf("%w: %v", ErrMalformedGrantSet, err)
	}
	if err := validate.Struct(grants); err != nil {
		return access.GrantSet{}, fmt.Errorf("%w: %v", ErrMalformedGrantSet, err)
	}
	return grants, nil
}

// Encode produces the persisted form of a grant set. Nil slices are written as
// empty arrays so the result always passes Decode.
func Encode(grants access.GrantSet) ([]byte, error) {
	if grants.Roles == nil {
		grants.Roles = []access.Role{}
	}
	privileges := make([]access.Privilege, len(grants.Privileges))
	for i, p := range grants.Privileges {
		if p.Actions == nil {
			p.Actions = []access.Action{}
		}
		privileges[i] = p
	}
	grants.Privileges = privileges
	return json.Marshal(grants)
}
