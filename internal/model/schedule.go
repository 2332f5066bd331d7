package model

// SelectableDate is a session date a member may book against.
// IsCancelled marks dates that stay visible but are closed for booking.
type SelectableDate struct {
    Date        string `json:"date"`
    IsCancelled bool   `json:"is_cancelled"`
}

// ScheduleOverrides holds the admin-maintained exceptions to the weekly
// recurrence.  Both lists are kept sorted and free of duplicates.
type ScheduleOverrides struct {
    CancelledDates    []string `json:"cancelled_dates"`
    SpecialEventDates []string `json:"special_event_dates"`
}
