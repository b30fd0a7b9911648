// Package dispatch runs one batch of scheduled emails.
//
// A Runner asks its Repository for due legacy schedules and due group
// recipients, resolves the template for each item, sends it through a
// Mailer and, after a successful send, advances the item to its next
// occurrence. Items are handled one at a time. A failure in one item is
// recorded in its Result and never stops the batch; only a failure to load
// the batch itself is returned as an error.
package dispatch
