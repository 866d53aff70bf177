// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import "time"

// authorize admits only the administrator.
func authorize(caller, admin Address) *Error {
	if caller != admin {
		return reject(KindUnauthorized, -1, "caller %q is not the administrator", caller)
	}
	return nil
}

// checkOpen rejects a poll that no longer accepts votes. Owner closure wins
// when both causes hold. Caller holds p.mu.
func checkOpen(p *poll, now time.Time) *Error {
	if p.ownerClosed {
		return reject(KindPollClosedByOwner, p.id, "poll %d was closed by the administrator", p.id)
	}
	if !now.Before(p.endTime) {
		return reject(KindPollExpired, p.id, "poll %d ended at %s", p.id, p.endTime.Format(time.RFC3339))
	}
	return nil
}
