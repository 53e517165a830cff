package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/rendetalje/lead-cli/internal/model"
)

// ParseTimeEstimate reads job duration from text. Supported shapes:
//
//	"3 timer", "3-4 timer"      estimated hours (a range averages)
//	"7,5 arbejdstimer"          actual hours
//	"2 personer × 2,5 timer"    persons times hours
//	"08:00-12:30"               clock range, only when no hours were found
//
// TotalMinutes is set whenever EstimatedHours is. Returns nil when nothing
// matched.
func ParseTimeEstimate(text string) *model.TimeEstimate {
	var out model.TimeEstimate
	found := false

	if m := hoursRe.FindStringSubmatch(text); m != nil {
		a := parseDecimal(m[1])
		if m[2] != "" {
			a = (a + parseDecimal(m[2])) / 2
		}
		out.EstimatedHours = &a
		out.Text = m[0]
		found = true
	}

	if m := actualHoursRe.FindStringSubmatch(text); m != nil {
		v := parseDecimal(m[1])
		out.ActualHours = &v
		found = true
	}

	if m := personsHoursRe.FindStringSubmatch(text); m != nil {
		persons, _ := strconv.Atoi(m[1])
		v := float64(persons) * parseDecimal(m[2])
		out.EstimatedHours = &v
		out.Text = m[0]
		found = true
	}

	if out.EstimatedHours == nil {
		if m := clockRangeRe.FindStringSubmatch(text); m != nil {
			minutes := clock(m[3], m[4]) - clock(m[1], m[2])
			if minutes > 0 {
				v := float64(minutes) / 60
				out.EstimatedHours = &v
				out.Text = m[0]
				found = true
			}
		}
	}

	if !found {
		return nil
	}
	if out.EstimatedHours != nil {
		total := int(math.Round(*out.EstimatedHours * 60))
		out.TotalMinutes = &total
	}
	return &out
}

// FromDuration builds an estimate from a scheduled block of minutes.
func FromDuration(minutes int) *model.TimeEstimate {
	if minutes <= 0 {
		return nil
	}
	h := float64(minutes) / 60
	return &model.TimeEstimate{EstimatedHours: &h, TotalMinutes: &minutes}
}

func parseDecimal(s string) float64 {
	v, _ := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	return v
}

func clock(h, m string) int {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	return hh*60 + mm
}
