package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// RenderDOCX builds the Word export as an OOXML package: document body,
// running institutional header with page number, confidentiality footer,
// full-page border and the embedded images. A single undecodable image
// degrades to a placeholder paragraph; only packaging failures abort.
func RenderDOCX(r *ShiftReport, emb Emblems) ([]byte, error) {
	d := newDocxBuilder()

	d.body.WriteString(spacerPara(480))
	d.body.WriteString(headingPara(strings.TrimSpace("RELATÓRIO DE PLANTÃO "+r.ReportNumber), 32, true))
	d.body.WriteString(para(jcCenter+spacing(120, 120, 0),
		run(FormatDate(r.ReportDate), runOpts{italic: true, size: 24})))
	d.body.WriteString(spacerPara(480))

	for _, p := range IntroductoryParagraphs(r) {
		d.body.WriteString(para(jcJustify+firstLineIndent+spacing(120, 120, 360),
			run(p, runOpts{size: 24})))
	}
	d.body.WriteString(spacerPara(120))
	d.body.WriteString(dataTable([]labelValue{
		{"Início do Plantão", FormatDateTime(r.StartDateTime)},
		{"Fim do Plantão", FormatDateTime(r.EndDateTime)},
		{"Nome da Equipe", r.TeamName},
		{"Cartório Responsável", r.ResponsibleOffice},
	}))
	d.body.WriteString(spacerPara(120))
	d.body.WriteString(officersTable(r.Officers))
	d.body.WriteString(spacerPara(480))

	d.body.WriteString(headingPara("1. Resumo das Ocorrências", 28, false))
	if r.HasOccurrences && len(r.Occurrences) > 0 {
		for _, o := range r.Occurrences {
			d.body.WriteString(spacerPara(120))
			d.body.WriteString(dataTable([]labelValue{
				{"Número do RAI", o.RAINumber},
				{"Natureza da Ocorrência", o.Nature},
				{"Resumo da Ocorrência", o.Summary},
				{"Cartório Responsável", o.ResponsibleOffice},
			}))
			d.body.WriteString(spacerPara(120))
		}
	} else {
		d.body.WriteString(para(spacing(120, 120, 360),
			run(NoOccurrencesText, runOpts{italic: true, size: 24})))
	}
	d.body.WriteString(spacerPara(480))

	d.body.WriteString(headingPara("2. Imagens Relevantes", 28, false))
	d.writeImagesSection(r)
	d.body.WriteString(spacerPara(480))

	d.body.WriteString(headingPara("3. Observações e Recomendações", 28, false))
	d.body.WriteString(para(jcJustify+firstLineIndent+spacing(120, 120, 360),
		run(ObservationsText(r.Observations), runOpts{size: 24})))
	d.body.WriteString(spacerPara(120))

	d.body.WriteString(headingPara("4. Conclusão", 28, false))
	d.body.WriteString(para(jcJustify+firstLineIndent+spacing(120, 120, 360),
		run(ConclusionText, runOpts{size: 24})))
	d.body.WriteString(spacerPara(480))

	d.body.WriteString(headingPara("Assinaturas", 28, false))
	for _, o := range r.Officers {
		d.body.WriteString(spacerPara(240))
		d.body.WriteString(para(jcCenter, run("__________________________", runOpts{size: 24})))
		d.body.WriteString(para(jcCenter, run(o.Name, runOpts{size: 24})))
		d.body.WriteString(para(jcCenter+spacing(0, 120, 0), run(o.Role, runOpts{size: 24})))
	}

	return d.pack(emb)
}

type labelValue struct {
	Label string
	Value string
}

type docxMedia struct {
	name string
	data []byte
}

type docxBuilder struct {
	body      strings.Builder
	media     []docxMedia
	bodyRels  []string // relationship XML entries for document.xml
	drawingID int
}

func newDocxBuilder() *docxBuilder {
	return &docxBuilder{drawingID: 10}
}

func (d *docxBuilder) writeImagesSection(r *ShiftReport) {
	if len(r.Images) == 0 {
		d.body.WriteString(para(spacing(120, 120, 360),
			run(NoImagesText, runOpts{italic: true, size: 24})))
		return
	}
	for i, img := range r.Images {
		caption := img.Description
		if caption == "" {
			caption = fmt.Sprintf("Imagem %d", i+1)
		}
		format, err := detectImageFormat(img.Data)
		if err != nil {
			desc := img.Description
			if desc == "" {
				desc = "Sem descrição"
			}
			d.body.WriteString(para(spacing(120, 120, 360),
				run(fmt.Sprintf("[Não foi possível incluir a imagem: %s]", desc), runOpts{italic: true, size: 24})))
			continue
		}
		relID := fmt.Sprintf("rId%d", 100+i)
		name := fmt.Sprintf("media/image%d.%s", i+1, format)
		d.media = append(d.media, docxMedia{name: name, data: img.Data})
		d.bodyRels = append(d.bodyRels, relationship(relID, relTypeImage, name))
		d.drawingID++
		d.body.WriteString(imageTable(drawingXML(relID, d.drawingID, 3810000, 2857500), caption))
		d.body.WriteString(spacerPara(120))
	}
}

// pack assembles the zip package around the accumulated body.
func (d *docxBuilder) pack(emb Emblems) ([]byte, error) {
	headerXML, headerRels, headerMedia := buildHeader(emb)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", documentXML(d.body.String())},
		{"word/_rels/document.xml.rels", relsXML(append([]string{
			relationship("rId1", relTypeHeader, "header1.xml"),
			relationship("rId2", relTypeFooter, "footer1.xml"),
		}, d.bodyRels...))},
		{"word/header1.xml", headerXML},
		{"word/_rels/header1.xml.rels", relsXML(headerRels)},
		{"word/footer1.xml", footerXML},
	}
	for _, p := range parts {
		if err := write(p.name, p.content); err != nil {
			return nil, fmt.Errorf("docx: escrevendo %s: %w", p.name, err)
		}
	}
	for _, m := range append(headerMedia, d.media...) {
		w, err := zw.Create("word/" + m.name)
		if err != nil {
			return nil, fmt.Errorf("docx: escrevendo %s: %w", m.name, err)
		}
		if _, err := w.Write(m.data); err != nil {
			return nil, fmt.Errorf("docx: escrevendo %s: %w", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: fechando pacote: %w", err)
	}
	return buf.Bytes(), nil
}

// buildHeader returns the running header part: page number, emblems flanking
// the institutional lines. Emblems that failed to load are simply left out.
func buildHeader(emb Emblems) (xml string, rels []string, media []docxMedia) {
	policeCell := emblemCell(emb.Police, "rIdPol", 1, &rels, &media, "emblem1")
	stateCell := emblemCell(emb.State, "rIdEst", 2, &rels, &media, "emblem2")

	var lines strings.Builder
	for _, l := range HeaderLines {
		lines.WriteString(para(jcCenter, run(l, runOpts{bold: true, size: 20})))
	}

	var b strings.Builder
	b.WriteString(xmlProlog)
	b.WriteString(`<w:hdr ` + wordNamespaces + `>`)
	b.WriteString(para(`<w:jc w:val="right"/>`, pageNumberField()))
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/>` + noTableBorders + `</w:tblPr>`)
	b.WriteString(`<w:tblGrid><w:gridCol w:w="1417"/><w:gridCol w:w="6614"/><w:gridCol w:w="1417"/></w:tblGrid>`)
	b.WriteString(`<w:tr>`)
	b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="750" w:type="pct"/></w:tcPr>` + policeCell + `</w:tc>`)
	b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="3500" w:type="pct"/></w:tcPr>` + lines.String() + `</w:tc>`)
	b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="750" w:type="pct"/></w:tcPr>` + stateCell + `</w:tc>`)
	b.WriteString(`</w:tr></w:tbl>`)
	b.WriteString(spacerPara(240))
	b.WriteString(`</w:hdr>`)
	return b.String(), rels, media
}

func emblemCell(data []byte, relID string, drawingID int, rels *[]string, media *[]docxMedia, baseName string) string {
	format, err := detectImageFormat(data)
	if err != nil {
		return para(jcCenter, "")
	}
	name := fmt.Sprintf("%s.%s", baseName, format)
	*media = append(*media, docxMedia{name: "media/" + name, data: data})
	*rels = append(*rels, relationship(relID, relTypeImage, "media/"+name))
	return para(jcCenter, drawingXML(relID, drawingID, 619125, 619125))
}

// detectImageFormat decodes just the image header; unsupported or corrupt
// data is reported so the caller can fall back to a placeholder.
func detectImageFormat(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("imagem vazia")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	switch format {
	case "png":
		return "png", nil
	case "jpeg":
		return "jpeg", nil
	}
	return "", fmt.Errorf("formato de imagem não suportado: %s", format)
}

// ---- WordprocessingML fragments ----

const (
	xmlProlog = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	wordNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`

	relTypeHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	jcCenter        = `<w:jc w:val="center"/>`
	jcJustify       = `<w:jc w:val="both"/>`
	firstLineIndent = `<w:ind w:firstLine="567"/>`

	timesFont = `<w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman" w:cs="Times New Roman"/>`

	noTableBorders = `<w:tblBorders>` +
		`<w:top w:val="none" w:sz="0" w:space="0" w:color="auto"/>` +
		`<w:left w:val="none" w:sz="0" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="none" w:sz="0" w:space="0" w:color="auto"/>` +
		`<w:right w:val="none" w:sz="0" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="none" w:sz="0" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="none" w:sz="0" w:space="0" w:color="auto"/>` +
		`</w:tblBorders>`

	contentTypesXML = xmlProlog +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Default Extension="jpeg" ContentType="image/jpeg"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>` +
		`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
		`</Types>`

	packageRelsXML = xmlProlog +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
)

var footerXML = xmlProlog +
	`<w:ftr ` + wordNamespaces + `>` +
	para(jcCenter+spacing(60, 60, 240),
		run(FooterText, runOpts{bold: true, size: 16, color: "FF0000"})) +
	`</w:ftr>`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;",
)

type runOpts struct {
	bold   bool
	italic bool
	size   int // half-points
	color  string
}

func run(text string, o runOpts) string {
	var props strings.Builder
	props.WriteString(timesFont)
	if o.bold {
		props.WriteString(`<w:b/>`)
	}
	if o.italic {
		props.WriteString(`<w:i/>`)
	}
	if o.color != "" {
		props.WriteString(fmt.Sprintf(`<w:color w:val="%s"/>`, o.color))
	}
	if o.size > 0 {
		props.WriteString(fmt.Sprintf(`<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, o.size, o.size))
	}
	return fmt.Sprintf(`<w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`,
		props.String(), xmlEscaper.Replace(text))
}

func para(pPr string, runs ...string) string {
	inner := strings.Join(runs, "")
	if pPr == "" {
		return "<w:p>" + inner + "</w:p>"
	}
	return "<w:p><w:pPr>" + pPr + "</w:pPr>" + inner + "</w:p>"
}

func spacerPara(after int) string {
	return para(spacing(0, after, 0))
}

func spacing(before, after, line int) string {
	s := fmt.Sprintf(`<w:spacing w:before="%d" w:after="%d"`, before, after)
	if line > 0 {
		s += fmt.Sprintf(` w:line="%d" w:lineRule="auto"`, line)
	}
	return s + "/>"
}

func headingPara(text string, size int, center bool) string {
	pPr := spacing(240, 120, 0)
	if center {
		pPr = jcCenter + pPr
	}
	return para(pPr, run(text, runOpts{bold: true, size: size}))
}

func pageNumberField() string {
	return `<w:r><w:rPr>` + timesFont + `<w:sz w:val="20"/></w:rPr><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:rPr>` + timesFont + `<w:sz w:val="20"/></w:rPr><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>` +
		`<w:r><w:rPr>` + timesFont + `<w:sz w:val="20"/></w:rPr><w:fldChar w:fldCharType="end"/></w:r>`
}

func relationship(id, relType, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relType, target)
}

func relsXML(entries []string) string {
	return xmlProlog +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(entries, "") +
		`</Relationships>`
}

// dataTable renders the two-column shaded label/value table used for the
// shift metadata and for each occurrence.
func dataTable(rows []labelValue) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/>` + tableBordersWhite + `</w:tblPr>`)
	b.WriteString(`<w:tblGrid><w:gridCol w:w="2835"/><w:gridCol w:w="6614"/></w:tblGrid>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		b.WriteString(shadedCell(1500, "F2F2F2",
			para(spacing(60, 60, 240), run(row.Label, runOpts{bold: true, size: 24}))))
		b.WriteString(shadedCell(3500, "F9F9F9",
			para(jcJustify+spacing(60, 60, 240), run(row.Value, runOpts{size: 24}))))
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
	return b.String()
}

// officersTable lists the team in a single shaded row, one officer per line.
func officersTable(officers []Officer) string {
	var content strings.Builder
	for _, o := range officers {
		content.WriteString(para(jcJustify+spacing(60, 0, 240),
			run("• "+o.Name+" - "+o.Role, runOpts{size: 24})))
	}
	if len(officers) == 0 {
		content.WriteString(para(spacing(60, 60, 240), ""))
	}
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/>` + tableBordersWhite + `</w:tblPr>`)
	b.WriteString(`<w:tblGrid><w:gridCol w:w="2835"/><w:gridCol w:w="6614"/></w:tblGrid>`)
	b.WriteString(`<w:tr>`)
	b.WriteString(shadedCell(1500, "F2F2F2",
		para(spacing(60, 60, 240), run("Policiais da Equipe", runOpts{bold: true, size: 24}))))
	b.WriteString(shadedCell(3500, "F9F9F9", content.String()))
	b.WriteString(`</w:tr></w:tbl>`)
	return b.String()
}

// imageTable frames one embedded image with its italic caption below.
func imageTable(imageRunXML, caption string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="4500" w:type="pct"/>` + tableBordersGray + `</w:tblPr>`)
	b.WriteString(`<w:tblGrid><w:gridCol w:w="8504"/></w:tblGrid>`)
	b.WriteString(`<w:tr><w:tc><w:tcPr><w:tcW w:w="5000" w:type="pct"/></w:tcPr>`)
	b.WriteString(para(jcCenter+spacing(120, 120, 0), imageRunXML))
	b.WriteString(`</w:tc></w:tr>`)
	b.WriteString(`<w:tr><w:tc><w:tcPr><w:tcW w:w="5000" w:type="pct"/></w:tcPr>`)
	b.WriteString(para(jcCenter+spacing(120, 120, 0), run(caption, runOpts{italic: true, size: 24})))
	b.WriteString(`</w:tc></w:tr></w:tbl>`)
	return b.String()
}

const (
	tableBordersWhite = `<w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="FFFFFF"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="FFFFFF"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="FFFFFF"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="FFFFFF"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="FFFFFF"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="FFFFFF"/>` +
		`</w:tblBorders>`

	tableBordersGray = `<w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="D3D3D3"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="D3D3D3"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="D3D3D3"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="D3D3D3"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="D3D3D3"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="D3D3D3"/>` +
		`</w:tblBorders>`
)

func shadedCell(widthPct int, fill, content string) string {
	return fmt.Sprintf(`<w:tc><w:tcPr><w:tcW w:w="%d" w:type="pct"/><w:shd w:val="clear" w:color="auto" w:fill="%s"/></w:tcPr>%s</w:tc>`,
		widthPct, fill, content)
}

// drawingXML emits an inline picture run referencing an already-registered
// image relationship. Sizes are in EMU (9525 per pixel at 96 dpi).
func drawingXML(relID string, drawingID int, cx, cy int64) string {
	return fmt.Sprintf(`<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="Imagem %d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="Imagem %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		cx, cy, drawingID, drawingID, drawingID, drawingID, relID, cx, cy)
}

// documentXML wraps the body with the section properties: A4, the original
// layout margins, the light page border on all pages and the header/footer
// references.
func documentXML(body string) string {
	sectPr := `<w:sectPr>` +
		`<w:headerReference w:type="default" r:id="rId1"/>` +
		`<w:footerReference w:type="default" r:id="rId2"/>` +
		`<w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1701" w:right="1134" w:bottom="1417" w:left="1701" w:header="708" w:footer="708" w:gutter="0"/>` +
		`<w:pgBorders w:display="allPages" w:offsetFrom="page" w:zOrder="back">` +
		`<w:top w:val="single" w:sz="4" w:space="24" w:color="D3D3D3"/>` +
		`<w:left w:val="single" w:sz="4" w:space="24" w:color="D3D3D3"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="24" w:color="D3D3D3"/>` +
		`<w:right w:val="single" w:sz="4" w:space="24" w:color="D3D3D3"/>` +
		`</w:pgBorders>` +
		`</w:sectPr>`
	return xmlProlog +
		`<w:document ` + wordNamespaces + `>` +
		`<w:body>` + body + sectPr + `</w:body>` +
		`</w:document>`
}
