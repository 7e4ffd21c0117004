// Package auth tracks the signed-in identity. The actual credential checks
// (OAuth popup, OTP challenge) are delegated to the backing auth service;
// this package owns who is currently signed in and how they got there.
package auth

// SignInMethod records which path produced the identity. Profile completion
// depends on it: a phone sign-in arrives without name/email, a provider
// sign-in arrives without a verified phone.
type SignInMethod string

const (
	MethodProvider SignInMethod = "provider"
	MethodPhone    SignInMethod = "phone"
)

// Identity is the stable reference for the authenticated user.
type Identity struct {
	UID    string       `json:"uid"`
	Name   string       `json:"name,omitempty"`
	Email  string       `json:"email,omitempty"`
	Phone  string       `json:"phone,omitempty"`
	Method SignInMethod `json:"method"`
}
