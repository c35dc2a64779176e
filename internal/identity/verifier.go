// Package identity consumes the external identity provider: it turns a
// bearer assertion issued by the provider into the subject/email/name
// triple the rest of the system trusts. Nothing here knows about roles;
// the provider cannot assert one.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidAssertion marks an assertion that is malformed, expired, or
// not signed by the provider's current key set.
var ErrInvalidAssertion = errors.New("invalid identity assertion")

// ExternalIdentity is the verified claim set extracted from an assertion.
type ExternalIdentity struct {
	SubjectID   string
	Email       string
	DisplayName string
}

// Verifier validates an externally-issued assertion.
type Verifier interface {
	Verify(ctx context.Context, assertion string) (*ExternalIdentity, error)
}
