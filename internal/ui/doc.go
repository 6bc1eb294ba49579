// Package ui implements the terminal storefront using bubbletea's Elm architecture.
//
// The [Model] renders three routes:
//  1. landing (/) : hero, featured album grid and genre tiles
//  2. auth (/auth) : login/registration form driven by [auth.Controller]
//  3. profile (/profile) : the signed-in user's details
//
// A navigation bar sits above every route. Its layout follows [nav.Layout]:
// the window width in columns is converted to logical pixels with a cell
// width, and below the desktop threshold the links move into a sidebar that a
// click outside of it dismisses.
//
// Session state comes from [session.Controller]. Storage changes, including
// those made by other processes, arrive as messages and re-read the store.
// Network calls run as commands; an auth result that arrives after the form
// was left is discarded.
//
// Notifications are auto-dismissed with a tick carrying the notification ID,
// so a tick for a notification that was already closed or replaced does nothing.
package ui
