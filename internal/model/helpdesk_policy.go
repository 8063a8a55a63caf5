package model

import "time"

// slaHours is the response target per priority, counted from submission.
var slaHours = map[string]int{
	PriorityLow:    72,
	PriorityMedium: 24,
	PriorityHigh:   8,
	PriorityUrgent: 4,
}

func ValidPriority(p string) bool {
	_, ok := slaHours[p]
	return ok
}

// SLATarget returns the SLA deadline for a ticket of the given priority.
// Unknown priorities fall back to medium.
func SLATarget(priority string, submittedAt time.Time) time.Time {
	hours, ok := slaHours[priority]
	if !ok {
		hours = slaHours[PriorityMedium]
	}
	return submittedAt.Add(time.Duration(hours) * time.Hour)
}

// ticketTransitions maps a target status to the statuses it may be entered from.
var ticketTransitions = map[string][]string{
	TicketNew:        {TicketPendingApproval},
	TicketAssigned:   {TicketNew, TicketOnHold, TicketInProgress},
	TicketInProgress: {TicketNew, TicketAssigned, TicketOnHold},
	TicketOnHold:     {TicketNew, TicketAssigned, TicketInProgress},
	TicketResolved:   {TicketNew, TicketAssigned, TicketInProgress, TicketOnHold},
	TicketClosed:     {TicketResolved},
	TicketCancelled:  {TicketPendingApproval, TicketNew, TicketAssigned, TicketInProgress, TicketOnHold},
	TicketRejected:   {TicketPendingApproval},
}

func ValidTicketStatus(s string) bool {
	if s == TicketPendingApproval {
		return true
	}
	_, ok := ticketTransitions[s]
	return ok
}

// ValidTicketTransition reports whether a ticket may move from one status to another.
// Resolved tickets may be reopened to in_progress.
func ValidTicketTransition(from, to string) bool {
	if from == TicketResolved && to == TicketInProgress {
		return true
	}
	allowed, ok := ticketTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// CSATOpen reports whether a ticket is in a state where the requester may rate it.
func CSATOpen(status string) bool {
	return status == TicketResolved || status == TicketClosed
}
