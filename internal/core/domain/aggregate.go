package domain

// DayAggregate is the per-day doctor-calendar fold over one month of slot
// rows. One aggregate exists only for dates that had at least one contributing
// row; a missing key means all-zero, no warning. Name sets are kept sorted so
// repeated aggregation of the same input is structurally equal.
type DayAggregate struct {
	DateKey         string   `json:"dateKey"`
	OnTheDayCount   int      `json:"onTheDayCount"`
	OneWeekCount    int      `json:"oneWeekCount"`
	TwoWeekCount    int      `json:"twoWeekCount"`
	HasDuty         bool     `json:"hasDuty"`
	DoctorNames     []string `json:"doctorNames"`
	TraineeNames    []string `json:"traineeNames"`
	DutyDoctorNames []string `json:"dutyDoctorNames"`

	// Derived in the post-pass; independent of "today"
	LowOnTheDay  bool `json:"lowOnTheDay"`
	TraineeRatio bool `json:"traineeRatio"`
}

// NurseDayAggregate is the per-day nurse-calendar fold: presence, sample
// testing coverage and per-person worked hours for lunch-break detection.
type NurseDayAggregate struct {
	DateKey           string             `json:"dateKey"`
	RowCount          int                `json:"rowCount"`
	NurseNames        []string           `json:"nurseNames"`
	HasSampleTesting  bool               `json:"hasSampleTesting"`
	PerPersonHours    map[string]float64 `json:"perPersonHours"`
	MissingLunchNames []string           `json:"missingLunchNames"`
}

type DoctorWarningClass string

const (
	DoctorWarningNone         DoctorWarningClass = ""
	DoctorWarningLowOnTheDay  DoctorWarningClass = "low_otd"
	DoctorWarningNoDuty       DoctorWarningClass = "no_duty"
	DoctorWarningTraineeRatio DoctorWarningClass = "trainee_ratio"
)

// DoctorDayWarnings is the classified warning state for one doctor-calendar
// day. Class carries the single highest-precedence warning for the calendar
// cell; the booleans stay independently set so a detail view can list every
// applicable warning at once.
type DoctorDayWarnings struct {
	Class        DoctorWarningClass `json:"class"`
	LowOnTheDay  bool               `json:"lowOnTheDay"`
	NoDuty       bool               `json:"noDuty"`
	TraineeRatio bool               `json:"traineeRatio"`
}

// NurseDayWarnings is the classified warning state for one nurse-calendar
// day. Both warnings can fire together.
type NurseDayWarnings struct {
	LacksSampleTesting bool     `json:"lacksSampleTesting"`
	MissingLunchNames  []string `json:"missingLunchNames"`
}

// MonthDiagnostics is the best-effort error indicator for one month's fold:
// rows dropped for unparseable dates or malformed shapes never abort the
// month, they land here.
type MonthDiagnostics struct {
	ExcludedRows int      `json:"excludedRows"`
	Errors       []string `json:"errors,omitempty"`
}

type DoctorCalendarDay struct {
	Aggregate DayAggregate      `json:"aggregate"`
	Warnings  DoctorDayWarnings `json:"warnings"`
}

type NurseCalendarDay struct {
	Aggregate NurseDayAggregate `json:"aggregate"`
	Warnings  NurseDayWarnings  `json:"warnings"`
}

type DoctorCalendar struct {
	Month       string                       `json:"month"`
	Days        map[string]DoctorCalendarDay `json:"days"`
	Diagnostics MonthDiagnostics             `json:"diagnostics"`
	Debug       []TimedEvent                 `json:"debug,omitempty"`
}

type NurseCalendar struct {
	Month       string                      `json:"month"`
	Days        map[string]NurseCalendarDay `json:"days"`
	Diagnostics MonthDiagnostics            `json:"diagnostics"`
	Debug       []TimedEvent                `json:"debug,omitempty"`
}
