package model

import (
	"testing"
	"time"
)

func TestSLATarget(t *testing.T) {
	submitted := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		priority string
		hours    int
	}{
		{PriorityLow, 72},
		{PriorityMedium, 24},
		{PriorityHigh, 8},
		{PriorityUrgent, 4},
		{"whatever", 24},
	}
	for _, tt := range cases {
		got := SLATarget(tt.priority, submitted)
		if want := submitted.Add(time.Duration(tt.hours) * time.Hour); !got.Equal(want) {
			t.Fatalf("SLATarget(%q)=%v, want %v", tt.priority, got, want)
		}
	}
}

func TestValidTicketTransition(t *testing.T) {
	cases := []struct {
		from, to string
		valid    bool
	}{
		{TicketPendingApproval, TicketNew, true},
		{TicketPendingApproval, TicketInProgress, false},
		{TicketNew, TicketInProgress, true},
		{TicketInProgress, TicketResolved, true},
		{TicketResolved, TicketClosed, true},
		{TicketResolved, TicketInProgress, true},
		{TicketNew, TicketClosed, false},
		{TicketClosed, TicketInProgress, false},
		{TicketRejected, TicketNew, false},
		{TicketNew, "unknown", false},
	}
	for _, tt := range cases {
		if got := ValidTicketTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidTicketTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}
