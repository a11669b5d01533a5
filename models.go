package main

import (
	"time"

	"relatorio_plantao/report"
)

// Wire formats for the wizard API. Dates travel as the strings the HTML
// date/datetime-local inputs produce; zero times travel as "".
const (
	wireDate     = "2006-01-02"
	wireDateTime = "2006-01-02T15:04"
)

type imageView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	DataURL     string `json:"data_url"`
}

type reportView struct {
	ReportDate        string              `json:"report_date"`
	ReportNumber      string              `json:"report_number"`
	StartDateTime     string              `json:"start_date_time"`
	EndDateTime       string              `json:"end_date_time"`
	TeamName          string              `json:"team_name"`
	ResponsibleOffice string              `json:"responsible_office"`
	Officers          []report.Officer    `json:"officers"`
	HasOccurrences    bool                `json:"has_occurrences"`
	Occurrences       []report.Occurrence `json:"occurrences"`
	Images            []imageView         `json:"images"`
	Observations      string              `json:"observations"`
}

// reportUpdate carries the scalar fields of one wizard page; nil means the
// field was not sent and keeps its current value.
type reportUpdate struct {
	ReportDate        *string `json:"report_date"`
	ReportNumber      *string `json:"report_number"`
	StartDateTime     *string `json:"start_date_time"`
	EndDateTime       *string `json:"end_date_time"`
	TeamName          *string `json:"team_name"`
	ResponsibleOffice *string `json:"responsible_office"`
	HasOccurrences    *bool   `json:"has_occurrences"`
	Observations      *string `json:"observations"`
}

type officerUpdate struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type occurrenceUpdate struct {
	RAINumber         *string `json:"rai_number"`
	Nature            *string `json:"nature"`
	Summary           *string `json:"summary"`
	ResponsibleOffice *string `json:"responsible_office"`
}

func viewOf(r *report.ShiftReport) reportView {
	v := reportView{
		ReportDate:        wireTime(r.ReportDate, wireDate),
		ReportNumber:      r.ReportNumber,
		StartDateTime:     wireTime(r.StartDateTime, wireDateTime),
		EndDateTime:       wireTime(r.EndDateTime, wireDateTime),
		TeamName:          r.TeamName,
		ResponsibleOffice: r.ResponsibleOffice,
		Officers:          r.Officers,
		HasOccurrences:    r.HasOccurrences,
		Occurrences:       r.Occurrences,
		Observations:      r.Observations,
	}
	if v.Officers == nil {
		v.Officers = []report.Officer{}
	}
	if v.Occurrences == nil {
		v.Occurrences = []report.Occurrence{}
	}
	v.Images = make([]imageView, 0, len(r.Images))
	for _, img := range r.Images {
		v.Images = append(v.Images, imageView{
			ID:          img.ID,
			Description: img.Description,
			DataURL:     img.DataURL(),
		})
	}
	return v
}

func wireTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// parseWireTime returns the zero time for empty or malformed input; a bad
// value in an optional field is never an error.
func parseWireTime(s, layout string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
