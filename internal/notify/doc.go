// Package notify reports rename failures to the user, either on stderr or
// through an interactive dialog, and points at a pre-filled issue form.
package notify
