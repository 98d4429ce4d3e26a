package models

import "time"

// TeamStatRecord holds the configured stats for one team as of a date.
// Every stat required by the active scoring weights is guaranteed present:
// a missing stat surfaces as ErrIncompleteStats at fetch time, it is never
// zero-filled here.
type TeamStatRecord struct {
	Team  string             `json:"team"`
	AsOf  time.Time          `json:"as_of"`
	Stats map[string]float64 `json:"stats"`
}

// Has reports whether the record carries the named stat
func (r *TeamStatRecord) Has(name string) bool {
	_, ok := r.Stats[name]
	return ok
}
