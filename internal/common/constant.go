// Package common contains shared constants, sentinel errors and small helpers
// used across the technician report service.
package common

// SessionCookieName is the name of the browser cookie that carries the
// signed reference to a server-side session.
const SessionCookieName = "techreport_session"

// SessionTokenBytes is the number of random bytes behind a session token.
// The hex encoded token is twice as long.
const SessionTokenBytes = 32

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6
