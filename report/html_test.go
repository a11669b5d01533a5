package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLBaseScenario(t *testing.T) {
	r := sampleReport()
	out, err := RenderHTML(r)
	require.NoError(t, err)

	assert.Contains(t, out, "Equipe Alpha")
	assert.Contains(t, out, "Cartório 2")
	assert.Contains(t, out, "João Silva - Agente")
	assert.Contains(t, out, NoOccurrencesText)
	assert.Contains(t, out, NoImagesText)
	assert.Contains(t, out, ObservationsDefault)
	assert.Contains(t, out, ConclusionText)
	assert.Contains(t, out, FooterText)
	assert.Contains(t, out, "01/03/2025")
	for _, line := range HeaderLines {
		assert.Contains(t, out, line)
	}
}

func TestRenderHTMLIgnoresStaleOccurrences(t *testing.T) {
	r := sampleReport()
	r.HasOccurrences = false
	r.Occurrences = []Occurrence{sampleOccurrence("oc-1")}

	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.Contains(t, out, NoOccurrencesText)
	assert.NotContains(t, out, "RAI-12345")
}

func TestRenderHTMLOccurrenceTable(t *testing.T) {
	r := sampleReport()
	r.HasOccurrences = true
	r.Occurrences = []Occurrence{sampleOccurrence("oc-1"), sampleOccurrence("oc-2")}

	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, out, NoOccurrencesText)
	assert.Equal(t, 2, strings.Count(out, "RAI-12345"))
	assert.Contains(t, out, "Embriaguez ao volante")
}

func TestRenderHTMLSignatureBlocksMatchOfficers(t *testing.T) {
	r := sampleReport()
	r.Officers = append(r.Officers,
		Officer{ID: "of-2", Name: "Maria Souza", Role: "Escrivão"},
		Officer{ID: "of-3", Name: "Pedro Lima", Role: "Delegado"},
	)
	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, `class="signature"`))
	// Signature order follows insertion order.
	assert.Less(t, strings.Index(out, "João Silva - Agente"), strings.Index(out, "Maria Souza - Escrivão"))
	assert.Less(t, strings.Index(out, "Maria Souza - Escrivão"), strings.Index(out, "Pedro Lima - Delegado"))
}

func TestRenderHTMLEscapesUserText(t *testing.T) {
	r := sampleReport()
	r.TeamName = `Equipe <script>alert("x")</script>`
	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert")
}

func TestRenderHTMLImagesWithCaptions(t *testing.T) {
	r := sampleReport()
	r.Images = []Attachment{
		{ID: "img-1", Data: []byte{1}, ContentType: "image/png", Description: "Local do sinistro"},
		{ID: "img-2", Data: []byte{2}, ContentType: "image/png"},
	}
	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, out, NoImagesText)
	assert.Contains(t, out, "Local do sinistro")
	assert.Contains(t, out, "Imagem 2")
	assert.Contains(t, out, "data:image/png;base64,")
}

func TestRenderHTMLDeterministic(t *testing.T) {
	r := sampleReport()
	a, err := RenderHTML(r)
	require.NoError(t, err)
	b, err := RenderHTML(r)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderHTMLZeroOfficers(t *testing.T) {
	r := sampleReport()
	r.Officers = nil
	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, out, `class="signature"`)
}
