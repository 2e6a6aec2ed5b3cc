// Package flash implements one-shot notices carried in a signed session
// cookie between a redirect and the page that displays them.
//
// Entries are appended under the "_flashes" session key in the order they
// are raised. Reading them with Drain removes them; Peek leaves them in place.
// Callers are responsible for saving the session afterwards.
package flash
