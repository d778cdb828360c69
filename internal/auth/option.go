package auth

import "errors"

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier) error

// WithClientID enables the audience policy: id tokens must carry the client
// ID in aud, and an access token naming a client in client_id must name this
// one. Without this option no audience check runs.
func WithClientID(clientID string) VerifierOption {
	return func(v *Verifier) error {
		if clientID == "" {
			return errors.New("client ID cannot be empty")
		}
		v.clientID = clientID
		return nil
	}
}

// WithLogger sets the verifier's logger.
func WithLogger(logger Logger) VerifierOption {
	return func(v *Verifier) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}
