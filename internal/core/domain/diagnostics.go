package domain

import "time"

// TimedEvent records how long one named step of a request took. Returned to
// the dashboard when debug output is requested.
type TimedEvent struct {
	Event     string            `json:"event"`
	Timing    int64             `json:"timing"`
	StartTime time.Time         `json:"-"`
	Options   map[string]string `json:"options,omitempty"`
}

func (d *TimedEvent) Start() {
	d.StartTime = time.Now()
}

func (d *TimedEvent) Elapse() {
	d.Timing = time.Since(d.StartTime).Milliseconds()
}

func (d *TimedEvent) AddOption(key string, value string) {
	if d.Options == nil {
		d.Options = make(map[string]string)
	}
	d.Options[key] = value
}
