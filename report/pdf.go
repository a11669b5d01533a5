package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in mm, A4 portrait.
const (
	pdfPageWidth    = 210.0
	pdfPageHeight   = 297.0
	pdfMarginLeft   = 20.0
	pdfMarginRight  = 20.0
	pdfMarginBottom = 25.0
	pdfContentWidth = pdfPageWidth - pdfMarginLeft - pdfMarginRight
	pdfLineHeight   = 5.0
)

// RenderPDF draws the report directly with text, rule and rectangle
// primitives. Layout state (current Y cursor) lives in a pdfLayout value;
// every block reserves its height up front so table rows and signature blocks
// never straddle a page break.
func RenderPDF(r *ShiftReport, emb Emblems) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Relatório de Plantão "+r.ReportNumber, true)
	// Identical input must yield identical bytes.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetMargins(pdfMarginLeft, 12, pdfMarginRight)
	pdf.SetAutoPageBreak(false, pdfMarginBottom)
	pdf.AliasNbPages("")

	l := &pdfLayout{pdf: pdf, emb: emb, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	l.registerEmblems()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(255, 0, 0)
		pdf.CellFormat(0, 4, l.tr(FooterText), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 4, l.tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	l.newPage()
	l.title(r)
	l.paragraphs(IntroductoryParagraphs(r))
	l.gap(4)

	l.dataTable(metadataRows(r))
	l.gap(2)
	l.dataTable([]labelValue{{"Policiais da Equipe", officerLines(r.Officers)}})
	l.gap(6)

	l.sectionHeading("1. Resumo das Ocorrências")
	if r.HasOccurrences && len(r.Occurrences) > 0 {
		for _, o := range r.Occurrences {
			l.dataTable([]labelValue{
				{"Número do RAI", o.RAINumber},
				{"Natureza da Ocorrência", o.Nature},
				{"Resumo da Ocorrência", o.Summary},
				{"Cartório Responsável", o.ResponsibleOffice},
			})
			l.gap(4)
		}
	} else {
		l.italicLine(NoOccurrencesText)
	}
	l.gap(6)

	l.sectionHeading("2. Imagens Relevantes")
	l.imagesSection(r)
	l.gap(6)

	l.sectionHeading("3. Observações e Recomendações")
	l.paragraphs([]string{ObservationsText(r.Observations)})
	l.gap(4)

	l.sectionHeading("4. Conclusão")
	l.paragraphs([]string{ConclusionText})
	l.gap(8)

	l.sectionHeading("Assinaturas")
	l.signatures(r.Officers)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func metadataRows(r *ShiftReport) []labelValue {
	return []labelValue{
		{"Início do Plantão", FormatDateTime(r.StartDateTime)},
		{"Fim do Plantão", FormatDateTime(r.EndDateTime)},
		{"Nome da Equipe", r.TeamName},
		{"Cartório Responsável", r.ResponsibleOffice},
	}
}

func officerLines(officers []Officer) string {
	lines := make([]string, 0, len(officers))
	for _, o := range officers {
		lines = append(lines, o.Name+" - "+o.Role)
	}
	return strings.Join(lines, "\n")
}

// pdfLayout threads the cursor position through the block functions.
type pdfLayout struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	emb        Emblems
	y          float64
	stateImg   string
	policeImg  string
	imageCount int
}

func (l *pdfLayout) registerEmblems() {
	l.policeImg = l.registerImage("emblema-policia", l.emb.Police)
	l.stateImg = l.registerImage("emblema-estado", l.emb.State)
}

// registerImage validates the bytes before handing them to gofpdf, so one bad
// image cannot poison the whole document. Returns "" when unusable.
func (l *pdfLayout) registerImage(name string, data []byte) string {
	format, err := detectImageFormat(data)
	if err != nil {
		return ""
	}
	l.pdf.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}, bytes.NewReader(data))
	return name
}

func (l *pdfLayout) newPage() {
	l.pdf.AddPage()
	l.drawHeader()
}

// ensure starts a new page (redrawing the header) when the next block of the
// given height would cross the bottom margin.
func (l *pdfLayout) ensure(h float64) {
	if l.y+h > pdfPageHeight-pdfMarginBottom {
		l.newPage()
	}
}

func (l *pdfLayout) gap(h float64) { l.y += h }

func (l *pdfLayout) drawHeader() {
	pdf := l.pdf
	top := 12.0
	opts := gofpdf.ImageOptions{}
	if l.policeImg != "" {
		pdf.ImageOptions(l.policeImg, pdfMarginLeft, top, 14, 14, false, opts, 0, "")
	}
	if l.stateImg != "" {
		pdf.ImageOptions(l.stateImg, pdfPageWidth-pdfMarginRight-14, top, 14, 14, false, opts, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	y := top
	for _, line := range HeaderLines {
		pdf.SetXY(pdfMarginLeft+18, y)
		pdf.CellFormat(pdfContentWidth-36, 4, l.tr(line), "", 0, "C", false, 0, "")
		y += 4.2
	}
	ruleY := top + 17
	if y+2 > ruleY {
		ruleY = y + 2
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(pdfMarginLeft, ruleY, pdfPageWidth-pdfMarginRight, ruleY)
	l.y = ruleY + 8
}

func (l *pdfLayout) title(r *ShiftReport) {
	pdf := l.pdf
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(pdfMarginLeft, l.y)
	pdf.CellFormat(pdfContentWidth, 7, l.tr(strings.TrimSpace("RELATÓRIO DE PLANTÃO "+r.ReportNumber)), "", 1, "C", false, 0, "")
	l.y += 8
	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetXY(pdfMarginLeft, l.y)
	pdf.CellFormat(pdfContentWidth, 5, FormatDate(r.ReportDate), "", 1, "C", false, 0, "")
	l.y += 10
}

func (l *pdfLayout) sectionHeading(text string) {
	l.ensure(12)
	l.pdf.SetFont("Helvetica", "B", 12)
	l.pdf.SetXY(pdfMarginLeft, l.y)
	l.pdf.CellFormat(pdfContentWidth, 6, l.tr(text), "", 1, "L", false, 0, "")
	l.y += 8
}

func (l *pdfLayout) italicLine(text string) {
	l.ensure(pdfLineHeight + 2)
	l.pdf.SetFont("Helvetica", "I", 11)
	l.pdf.SetXY(pdfMarginLeft, l.y)
	l.pdf.CellFormat(pdfContentWidth, pdfLineHeight, l.tr(text), "", 1, "L", false, 0, "")
	l.y += pdfLineHeight + 2
}

// paragraphs draws justified body text, wrapping to the content width and
// breaking pages between lines.
func (l *pdfLayout) paragraphs(paras []string) {
	pdf := l.pdf
	pdf.SetFont("Helvetica", "", 11)
	for _, p := range paras {
		for _, line := range l.wrapLines(p, pdfContentWidth) {
			l.ensure(pdfLineHeight)
			pdf.SetXY(pdfMarginLeft, l.y)
			pdf.CellFormat(pdfContentWidth, pdfLineHeight, line, "", 1, "L", false, 0, "")
			l.y += pdfLineHeight
		}
		l.y += 2
	}
}

// wrapLines splits already-translated-or-plain text into drawable lines for
// the current font. Explicit newlines are honoured.
func (l *pdfLayout) wrapLines(txt string, w float64) []string {
	var out []string
	for _, seg := range strings.Split(l.tr(txt), "\n") {
		if seg == "" {
			out = append(out, "")
			continue
		}
		out = append(out, l.pdf.SplitText(seg, w)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// dataTable draws the shaded label/value rows. Row height comes from the
// wrapped line count of both cells, so a row is always reserved whole.
func (l *pdfLayout) dataTable(rows []labelValue) {
	pdf := l.pdf
	labelW := 55.0
	valueW := pdfContentWidth - labelW
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		labelLines := l.wrapLines(row.Label, labelW-4)
		pdf.SetFont("Helvetica", "", 10)
		valueLines := l.wrapLines(row.Value, valueW-4)
		n := len(labelLines)
		if len(valueLines) > n {
			n = len(valueLines)
		}
		h := float64(n)*pdfLineHeight + 3
		l.ensure(h)

		pdf.SetDrawColor(221, 221, 221)
		pdf.SetLineWidth(0.2)
		pdf.SetFillColor(242, 242, 242)
		pdf.Rect(pdfMarginLeft, l.y, labelW, h, "FD")
		pdf.SetFillColor(249, 249, 249)
		pdf.Rect(pdfMarginLeft+labelW, l.y, valueW, h, "FD")

		pdf.SetFont("Helvetica", "B", 10)
		y := l.y + 1.5
		for _, line := range labelLines {
			pdf.SetXY(pdfMarginLeft+2, y)
			pdf.CellFormat(labelW-4, pdfLineHeight, line, "", 0, "L", false, 0, "")
			y += pdfLineHeight
		}
		pdf.SetFont("Helvetica", "", 10)
		y = l.y + 1.5
		for _, line := range valueLines {
			pdf.SetXY(pdfMarginLeft+labelW+2, y)
			pdf.CellFormat(valueW-4, pdfLineHeight, line, "", 0, "L", false, 0, "")
			y += pdfLineHeight
		}
		l.y += h
	}
}

// imagesSection draws each image at a fixed size inside a bordered box with
// its caption, or the placeholder line when the bytes cannot be decoded.
func (l *pdfLayout) imagesSection(r *ShiftReport) {
	if len(r.Images) == 0 {
		l.italicLine(NoImagesText)
		return
	}
	pdf := l.pdf
	boxW := 120.0
	boxH := 90.0
	boxX := (pdfPageWidth - boxW) / 2
	for i, img := range r.Images {
		caption := img.Description
		if caption == "" {
			caption = fmt.Sprintf("Imagem %d", i+1)
		}
		l.imageCount++
		name := l.registerImage(fmt.Sprintf("imagem-%d", l.imageCount), img.Data)
		if name == "" {
			desc := img.Description
			if desc == "" {
				desc = "Sem descrição"
			}
			l.italicLine(fmt.Sprintf("[Não foi possível incluir a imagem: %s]", desc))
			continue
		}

		pdf.SetFont("Helvetica", "I", 10)
		captionLines := l.wrapLines(caption, boxW-4)
		captionH := float64(len(captionLines))*pdfLineHeight + 2
		l.ensure(boxH + captionH + 4)

		pdf.SetDrawColor(211, 211, 211)
		pdf.SetLineWidth(0.2)
		pdf.Rect(boxX, l.y, boxW, boxH, "D")
		pdf.ImageOptions(name, boxX+2, l.y+2, boxW-4, boxH-4, false, gofpdf.ImageOptions{}, 0, "")
		y := l.y + boxH + 1
		for _, line := range captionLines {
			pdf.SetXY(boxX, y)
			pdf.CellFormat(boxW, pdfLineHeight, line, "", 0, "C", false, 0, "")
			y += pdfLineHeight
		}
		l.y += boxH + captionH + 4
	}
}

func (l *pdfLayout) signatures(officers []Officer) {
	pdf := l.pdf
	for _, o := range officers {
		l.ensure(26)
		l.y += 10
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Line(65, l.y, pdfPageWidth-65, l.y)
		l.y += 2
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetXY(pdfMarginLeft, l.y)
		pdf.CellFormat(pdfContentWidth, pdfLineHeight, l.tr(o.Name), "", 1, "C", false, 0, "")
		l.y += pdfLineHeight
		pdf.SetXY(pdfMarginLeft, l.y)
		pdf.CellFormat(pdfContentWidth, pdfLineHeight, l.tr(o.Role), "", 1, "C", false, 0, "")
		l.y += pdfLineHeight
	}
}
