package report

import (
	"bytes"
	"html/template"
)

// RenderHTML produces the self-contained preview document. It is a pure
// function of the report; the emblems are referenced by their static URLs
// rather than inlined.
func RenderHTML(r *ShiftReport) (string, error) {
	data := struct {
		*ShiftReport
		HeaderLines   []string
		Intro         []string
		Observations  string
		Conclusion    string
		NoOccurrences string
		NoImages      string
		Footer        string
	}{
		ShiftReport:   r,
		HeaderLines:   HeaderLines,
		Intro:         IntroductoryParagraphs(r),
		Observations:  ObservationsText(r.Observations),
		Conclusion:    ConclusionText,
		NoOccurrences: NoOccurrencesText,
		NoImages:      NoImagesText,
		Footer:        FooterText,
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatDate":     FormatDate,
	"formatDateTime": FormatDateTime,
	"inc":            func(i int) int { return i + 1 },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Relatório de Plantão - {{.ReportNumber}}</title>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 20px; }
  h1, h2 { color: #1a3a6e; }
  h1 { text-align: center; margin-bottom: 5px; }
  .inst-header { display: flex; align-items: center; justify-content: center; gap: 16px; margin-bottom: 20px; }
  .inst-header img { width: 65px; height: 65px; }
  .inst-header .lines { text-align: center; font-weight: bold; font-size: 12px; }
  .date { text-align: center; margin-bottom: 20px; font-style: italic; }
  .section { margin-bottom: 30px; }
  table { width: 100%; border-collapse: collapse; margin: 15px 0; }
  table, th, td { border: 1px solid #ddd; }
  th, td { padding: 10px; text-align: left; }
  th { background-color: #f2f2f2; }
  .general-info p { margin: 5px 0; }
  .signature { margin-top: 30px; }
  .signature .rule { width: 100%; border-top: 1px solid black; }
  .signature p { margin: 5px 0; }
  .image-block { margin-bottom: 20px; }
  .image-block img { max-width: 100%; max-height: 300px; margin-bottom: 8px; }
  .image-block p { font-style: italic; }
  .footer-banner { text-align: center; color: #ff0000; font-weight: bold; font-size: 11px; margin-top: 40px; }
</style>
</head>
<body>
<div class="inst-header">
  <img src="/static/brasao-policia-civil.png" alt="Brasão da Polícia Civil">
  <div class="lines">{{range .HeaderLines}}{{.}}<br>{{end}}</div>
  <img src="/static/brasao-goias.png" alt="Brasão de Goiás">
</div>

<h1>Relatório de Plantão</h1>
<p class="date">{{formatDate .ReportDate}}</p>

<div class="section">
  {{range .Intro}}<p>{{.}}</p>{{end}}
</div>

<div class="section">
  <h2>Dados Gerais</h2>
  <div class="general-info">
    <p><strong>Início do plantão:</strong> {{formatDateTime .StartDateTime}}</p>
    <p><strong>Fim do plantão:</strong> {{formatDateTime .EndDateTime}}</p>
    <p><strong>Nome da equipe:</strong> {{.TeamName}}</p>
    <p><strong>Cartório responsável:</strong> {{.ResponsibleOffice}}</p>
    <p><strong>Policiais da equipe:</strong></p>
    <ul>
      {{range .Officers}}<li>{{.Name}} - {{.Role}}</li>{{end}}
    </ul>
  </div>
</div>

<div class="section">
  <h2>Resumo das Ocorrências</h2>
  {{if .HasOccurrences}}
  <table>
    <thead>
      <tr>
        <th>Número do RAI</th>
        <th>Natureza da Ocorrência</th>
        <th>Resumo da Ocorrência</th>
        <th>Cartório Responsável</th>
      </tr>
    </thead>
    <tbody>
      {{range .Occurrences}}
      <tr>
        <td>{{.RAINumber}}</td>
        <td>{{.Nature}}</td>
        <td>{{.Summary}}</td>
        <td>{{.ResponsibleOffice}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  {{else}}
  <p><em>{{.NoOccurrences}}</em></p>
  {{end}}
</div>

<div class="section">
  <h2>Imagens Relevantes</h2>
  {{if .Images}}
  {{range $i, $img := .Images}}
  <div class="image-block">
    <img src="{{$img.DataURL}}" alt="Imagem {{inc $i}}">
    <p>{{if $img.Description}}{{$img.Description}}{{else}}Imagem {{inc $i}}{{end}}</p>
  </div>
  {{end}}
  {{else}}
  <p><em>{{.NoImages}}</em></p>
  {{end}}
</div>

<div class="section">
  <h2>Observações e Recomendações</h2>
  <p>{{.Observations}}</p>
</div>

<div class="section">
  <h2>Conclusão</h2>
  <p>{{.Conclusion}}</p>
</div>

<div class="section">
  <h2>Assinaturas</h2>
  {{range .Officers}}
  <div class="signature">
    <div class="rule"></div>
    <p>{{.Name}} - {{.Role}}</p>
  </div>
  {{end}}
</div>

<p class="footer-banner">{{.Footer}}</p>
</body>
</html>
`
