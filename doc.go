// Package auth provides the authentication core of the HR employee service:
// a credential store holding bcrypt hashed identities and a token service that
// issues and verifies signed, expiring bearer tokens.
//
// Credential store:
//   - CredentialStore keeps identities in memory keyed by username. Identities
//     leave the store without their password hash; only the active flag can
//     change after an identity is created.
//   - Registrations of the same username are serialized so exactly one wins.
//
// Tokens:
//   - TokenService signs JWTs with an HMAC key identified by a key id (kid).
//     Previous keys can be kept around for verification while secrets rotate.
//   - Verification is stateless. Every call re-derives validity from the
//     presented token and resolves the subject through the store again.
//
// Failures:
//   - Authentication failures are sentinel errors (ErrUnknownUser,
//     ErrBadCredential, ErrMalformedToken, ErrTokenExpired,
//     ErrInactiveIdentity). Transports should collapse them into a single
//     "unauthorized" outcome with IsUnauthorized and use FailureKind only for
//     logs and metrics.
package auth
