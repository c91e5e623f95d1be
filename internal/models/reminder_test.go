package models

import (
	"testing"
	"time"
)

func validReminder() Reminder {
	r := Reminder{
		Title: "Drink water",
		Date:  "2024-01-10",
		Time:  "09:30",
	}
	r.ApplyDefaults()
	return r
}

func TestReminder_ApplyDefaults(t *testing.T) {
	r := Reminder{Title: "x", Date: "2024-01-10", Time: "09:30"}
	r.ApplyDefaults()

	if r.Recurrence != RecurrenceOnce {
		t.Errorf("expected recurrence %q, got %q", RecurrenceOnce, r.Recurrence)
	}
	if r.Category != DefaultReminderCategory {
		t.Errorf("expected category %q, got %q", DefaultReminderCategory, r.Category)
	}
	if r.Priority != PriorityMedium {
		t.Errorf("expected priority %q, got %q", PriorityMedium, r.Priority)
	}
	if r.Status != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, r.Status)
	}
}

func TestReminder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Reminder)
		wantErr bool
	}{
		{name: "valid once reminder", mutate: func(r *Reminder) {}, wantErr: false},
		{name: "valid weekly reminder", mutate: func(r *Reminder) { r.Recurrence = RecurrenceWeekly }, wantErr: false},
		{name: "empty title", mutate: func(r *Reminder) { r.Title = "  " }, wantErr: true},
		{name: "bad date", mutate: func(r *Reminder) { r.Date = "01/10/2024" }, wantErr: true},
		{name: "bad time", mutate: func(r *Reminder) { r.Time = "25:00" }, wantErr: true},
		{name: "bad recurrence", mutate: func(r *Reminder) { r.Recurrence = "monthly" }, wantErr: true},
		{name: "bad priority", mutate: func(r *Reminder) { r.Priority = "urgent" }, wantErr: true},
		{name: "bad status", mutate: func(r *Reminder) { r.Status = "snoozed" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReminder()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReminder_IsDueOn(t *testing.T) {
	// 2024-01-10 is a Wednesday
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad test date %s: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name       string
		recurrence ReminderRecurrence
		day        string
		want       bool
	}{
		{"once on its date", RecurrenceOnce, "2024-01-10", true},
		{"once on another date", RecurrenceOnce, "2024-01-11", false},
		{"daily before start", RecurrenceDaily, "2024-01-09", false},
		{"daily on start", RecurrenceDaily, "2024-01-10", true},
		{"daily after start", RecurrenceDaily, "2024-03-01", true},
		{"weekly same weekday", RecurrenceWeekly, "2024-01-17", true},
		{"weekly other weekday", RecurrenceWeekly, "2024-01-18", false},
		{"weekly before start", RecurrenceWeekly, "2024-01-03", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReminder()
			r.Recurrence = tt.recurrence
			if got := r.IsDueOn(day(tt.day)); got != tt.want {
				t.Errorf("IsDueOn(%s) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if st, err := ParseStatus(" Completed "); err != nil || st != StatusCompleted {
		t.Errorf("ParseStatus(Completed) = %q, %v", st, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error for unknown status")
	}
}
