package report

import (
	"fmt"
	"strings"
	"time"
)

// Fixed sentences shared by all three renderers.
const (
	NoOccurrencesText   = "Não houve ocorrências durante o plantão."
	NoImagesText        = "Sem imagens relevantes"
	ConclusionText      = "Esta equipe finaliza o presente relatório, permanecendo à disposição para eventuais esclarecimentos."
	ObservationsDefault = "Não há informações dignas de nota decorrentes do Plantão ora documentado."
	FooterText          = "DOCUMENTO RESERVADO - DICT"
)

// HeaderLines is the institutional letterhead, centered above every document.
var HeaderLines = []string{
	"ESTADO DE GOIÁS",
	"SECRETARIA DE ESTADO DA SEGURANÇA PÚBLICA",
	"POLÍCIA CIVIL",
	"DELEGACIA ESPECIALIZADA EM INVESTIGAÇÕES DE CRIMES DE",
	"TRÂNSITO - DICT DE GOIÂNIA",
}

// FormatDate renders a date as dd/mm/yyyy. The zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatDateTime renders a timestamp as "dd/mm/yyyy às hh:mm".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 às 15:04")
}

// IntroductoryText returns the fixed opening of the report, interpolating the
// report number and the shift window.
func IntroductoryText(r *ShiftReport) string {
	return fmt.Sprintf("Trata-se do relatório de plantão de número %s, referente à jornada plantonista que se iniciou no dia %s e finalizou-se no dia %s.\n\nO presente documento tem por finalidade registrar, de forma clara e sucinta, os principais atendimentos, ocorrências, procedimentos instaurados e providências adotadas durante o referido período de plantão na Delegacia Especializada em Investigações de Crimes de Trânsito - DICT.\n\nBusca-se, com isso, sobrelevar as diligências preliminares realizadas em local de acidente de trânsito com vítima, assegurar a continuidade dos trabalhos investigativos, a rastreabilidade das ações empreendidas e a adequada comunicação entre as equipes que se sucedem, em conformidade com os princípios da legalidade, eficiência e transparência que regem a Administração Pública.",
		r.ReportNumber, FormatDateTime(r.StartDateTime), FormatDateTime(r.EndDateTime))
}

// IntroductoryParagraphs splits the introduction into its paragraphs.
func IntroductoryParagraphs(r *ShiftReport) []string {
	return strings.Split(IntroductoryText(r), "\n\n")
}

// ObservationsText returns the trimmed free text, or the fixed fallback
// sentence when nothing was written.
func ObservationsText(raw string) string {
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return ObservationsDefault
}

var fileNameSanitizer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

// ExportFileName builds the download name for an export. A blank report
// number falls back to the unit token; runes that are illegal in file names
// are replaced.
func ExportFileName(reportNumber, ext string) string {
	n := strings.TrimSpace(reportNumber)
	if n == "" {
		n = "DICT"
	}
	return "Relatório_Plantão_" + fileNameSanitizer.Replace(n) + "." + ext
}
