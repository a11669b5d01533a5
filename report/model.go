package report

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed option lists used by the wizard and echoed verbatim into every
// rendered document.
var (
	OfficerRoles = []string{
		"Delegado",
		"Escrivão",
		"Agente",
		"Papiloscopista",
		"Perito Criminal",
		"Auxiliar Policial",
		"Médico Legista",
		"Odonto Legista",
	}

	Offices = []string{"Cartório 1", "Cartório 2", "Cartório 3"}

	OccurrenceNatures = []string{
		"Homicídio culposo no trânsito",
		"Lesão corporal culposa no trânsito",
		"Embriaguez ao volante",
		"Sinistro de trânsito com dano material",
		"Fuga do local do acidente",
		"Direção perigosa",
		"Racha/competição não autorizada",
		"Outro",
	}
)

type Officer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type Occurrence struct {
	ID                string `json:"id"`
	RAINumber         string `json:"rai_number"`
	Nature            string `json:"nature"`
	Summary           string `json:"summary"`
	ResponsibleOffice string `json:"responsible_office"`
}

// Attachment holds one uploaded image exactly as received. The data URL form
// used by the HTML preview is derived on demand.
type Attachment struct {
	ID          string `json:"id"`
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	Description string `json:"description"`
}

// DataURL returns the attachment as a base64 data URL for inline display.
func (a Attachment) DataURL() string {
	if len(a.Data) == 0 {
		return ""
	}
	ct := a.ContentType
	if ct == "" {
		ct = "image/png"
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// ShiftReport is the in-memory record built up by the wizard pages. Renderers
// treat it as read-only; every output document is a function of this value
// plus the loaded emblems.
type ShiftReport struct {
	ReportDate        time.Time
	ReportNumber      string
	StartDateTime     time.Time
	EndDateTime       time.Time
	TeamName          string
	ResponsibleOffice string
	Officers          []Officer
	HasOccurrences    bool
	Occurrences       []Occurrence
	Images            []Attachment
	Observations      string
}

// NewShiftReport returns an empty report dated today.
func NewShiftReport() *ShiftReport {
	return &ShiftReport{ReportDate: time.Now()}
}

func (r *ShiftReport) AddOfficer() Officer {
	o := Officer{ID: uuid.NewString()}
	r.Officers = append(r.Officers, o)
	return o
}

func (r *ShiftReport) OfficerByID(id string) *Officer {
	for i := range r.Officers {
		if r.Officers[i].ID == id {
			return &r.Officers[i]
		}
	}
	return nil
}

func (r *ShiftReport) RemoveOfficer(id string) bool {
	for i := range r.Officers {
		if r.Officers[i].ID == id {
			r.Officers = append(r.Officers[:i], r.Officers[i+1:]...)
			return true
		}
	}
	return false
}

func (r *ShiftReport) AddOccurrence() Occurrence {
	o := Occurrence{ID: uuid.NewString()}
	r.Occurrences = append(r.Occurrences, o)
	return o
}

func (r *ShiftReport) OccurrenceByID(id string) *Occurrence {
	for i := range r.Occurrences {
		if r.Occurrences[i].ID == id {
			return &r.Occurrences[i]
		}
	}
	return nil
}

func (r *ShiftReport) RemoveOccurrence(id string) bool {
	for i := range r.Occurrences {
		if r.Occurrences[i].ID == id {
			r.Occurrences = append(r.Occurrences[:i], r.Occurrences[i+1:]...)
			return true
		}
	}
	return false
}

func (r *ShiftReport) AddImage(data []byte, contentType, description string) Attachment {
	a := Attachment{
		ID:          uuid.NewString(),
		Data:        data,
		ContentType: contentType,
		Description: description,
	}
	r.Images = append(r.Images, a)
	return a
}

func (r *ShiftReport) ImageByID(id string) *Attachment {
	for i := range r.Images {
		if r.Images[i].ID == id {
			return &r.Images[i]
		}
	}
	return nil
}

func (r *ShiftReport) RemoveImage(id string) bool {
	for i := range r.Images {
		if r.Images[i].ID == id {
			r.Images = append(r.Images[:i], r.Images[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks the wizard-level completeness rules. Renderers never
// require a valid report; a partially filled one still renders with the
// fallback texts.
func (r *ShiftReport) Validate() error {
	var missing []string
	if strings.TrimSpace(r.ReportNumber) == "" {
		missing = append(missing, "número do relatório")
	}
	if r.StartDateTime.IsZero() {
		missing = append(missing, "início do plantão")
	}
	if r.EndDateTime.IsZero() {
		missing = append(missing, "fim do plantão")
	}
	if strings.TrimSpace(r.TeamName) == "" {
		missing = append(missing, "nome da equipe")
	}
	if strings.TrimSpace(r.ResponsibleOffice) == "" {
		missing = append(missing, "cartório responsável")
	}
	if len(r.Officers) == 0 {
		missing = append(missing, "ao menos um policial")
	}
	if r.HasOccurrences && len(r.Occurrences) == 0 {
		missing = append(missing, "ocorrências do plantão")
	}
	if len(missing) > 0 {
		return fmt.Errorf("campos obrigatórios ausentes: %s", strings.Join(missing, ", "))
	}
	return nil
}
