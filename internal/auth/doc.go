// Package auth implements the login/registration form.
//
// The [Controller] owns the form fields, validates them locally, exchanges
// them for a session with the remote auth API, persists the session and
// reports the outcome through a notification.
//
// A submission moves through Editing → Submitting → Editing. Only one
// submission may be outstanding; [Controller.Begin] rejects a second one
// with [ErrSubmitInProgress]. Interactive callers run the network call
// between [Controller.Begin] and [Controller.Complete]; everyone else calls
// [Controller.Submit].
package auth
