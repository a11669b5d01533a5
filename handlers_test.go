package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relatorio_plantao/report"
)

// newTestServer resets the package globals and serves the real router. Tests
// share the globals, so none of them run in parallel.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg = defaultConfig()
	sugar = zap.NewNop().Sugar()
	store = sessions.NewCookieStore([]byte("chave-de-teste"))
	store.Options.Path = "/"
	registry = newReportRegistry()
	emblems = report.Emblems{}
	srv := httptest.NewServer(newRouter())
	t.Cleanup(srv.Close)
	return srv
}

// newBrowser returns a client with its own cookie jar, i.e. its own session.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func getView(t *testing.T, c *http.Client, base string) reportView {
	t.Helper()
	resp, body := doJSON(t, c, http.MethodGet, base+"/api/report", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v reportView
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{0, 128, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOptionsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, body := doJSON(t, c, http.MethodGet, srv.URL+"/api/options", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var opts map[string][]string
	require.NoError(t, json.Unmarshal(body, &opts))
	assert.Equal(t, report.OfficerRoles, opts["roles"])
	assert.Equal(t, report.Offices, opts["offices"])
	assert.Equal(t, report.OccurrenceNatures, opts["natures"])
}

func TestReportPatchRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, _ := doJSON(t, c, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		ReportNumber:  strPtr("07/2026"),
		TeamName:      strPtr("Equipe Bravo"),
		StartDateTime: strPtr("2026-08-30T19:00"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v := getView(t, c, srv.URL)
	assert.Equal(t, "07/2026", v.ReportNumber)
	assert.Equal(t, "Equipe Bravo", v.TeamName)
	assert.Equal(t, "2026-08-30T19:00", v.StartDateTime)
	assert.Equal(t, "", v.EndDateTime, "campo não enviado permanece zerado")

	// Fields absent from the body are preserved.
	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		ResponsibleOffice: strPtr("Cartório 1"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = getView(t, c, srv.URL)
	assert.Equal(t, "Equipe Bravo", v.TeamName)
	assert.Equal(t, "Cartório 1", v.ResponsibleOffice)

	// Malformed datetime degrades to the zero value, never an error.
	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		StartDateTime: strPtr("ontem à noite"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", getView(t, c, srv.URL).StartDateTime)
}

func TestReportUpdateRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/report", strings.NewReader("{não é json"))
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOfficerLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, body := doJSON(t, c, http.MethodPost, srv.URL+"/api/officers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created report.Officer
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/officers/"+created.ID, officerUpdate{
		Name: strPtr("João Silva"),
		Role: strPtr("Agente"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v := getView(t, c, srv.URL)
	require.Len(t, v.Officers, 1)
	assert.Equal(t, "João Silva", v.Officers[0].Name)
	assert.Equal(t, "Agente", v.Officers[0].Role)

	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/officers/inexistente", officerUpdate{Name: strPtr("x")})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, c, http.MethodDelete, srv.URL+"/api/officers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, getView(t, c, srv.URL).Officers)

	resp, _ = doJSON(t, c, http.MethodDelete, srv.URL+"/api/officers/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOccurrenceLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, body := doJSON(t, c, http.MethodPost, srv.URL+"/api/occurrences", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created report.Occurrence
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/occurrences/"+created.ID, occurrenceUpdate{
		RAINumber: strPtr("RAI-999"),
		Nature:    strPtr("Embriaguez ao volante"),
		Summary:   strPtr("Condutor abordado na BR-153."),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v := getView(t, c, srv.URL)
	require.Len(t, v.Occurrences, 1)
	assert.Equal(t, "RAI-999", v.Occurrences[0].RAINumber)
	assert.Equal(t, "Embriaguez ao volante", v.Occurrences[0].Nature)

	resp, _ = doJSON(t, c, http.MethodDelete, srv.URL+"/api/occurrences/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, c, http.MethodDelete, srv.URL+"/api/occurrences/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImageLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "local.png")
	require.NoError(t, err)
	_, err = fw.Write(testPNG(t))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("description", "Local do sinistro"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created imageView
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Local do sinistro", created.Description)
	assert.True(t, strings.HasPrefix(created.DataURL, "data:"), "preview deve vir como data URL")

	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/images/"+created.ID,
		map[string]string{"description": "Croqui da via"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := getView(t, c, srv.URL)
	require.Len(t, v.Images, 1)
	assert.Equal(t, "Croqui da via", v.Images[0].Description)

	resp, _ = doJSON(t, c, http.MethodDelete, srv.URL+"/api/images/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, getView(t, c, srv.URL).Images)
}

func TestImageUploadRequiresFile(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("description", "sem arquivo"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionIsolation(t *testing.T) {
	srv := newTestServer(t)
	alice := newBrowser(t)
	bruno := newBrowser(t)

	resp, _ := doJSON(t, alice, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		TeamName: strPtr("Equipe da Alice"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Equipe da Alice", getView(t, alice, srv.URL).TeamName)
	assert.Equal(t, "", getView(t, bruno, srv.URL).TeamName, "sessões não compartilham relatório")
}

func TestResetClearsSessionReport(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, _ := doJSON(t, c, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		TeamName: strPtr("Equipe Gama"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, c, http.MethodPost, srv.URL+"/api/report/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", getView(t, c, srv.URL).TeamName)
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, body := doJSON(t, c, http.MethodGet, srv.URL+"/api/report/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Officers int    `json:"officers"`
		Valid    bool   `json:"valid"`
		Problem  string `json:"problem"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.False(t, summary.Valid)
	assert.Contains(t, summary.Problem, "campos obrigatórios ausentes")

	resp, _ = doJSON(t, c, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		ReportNumber:      strPtr("01/2026"),
		StartDateTime:     strPtr("2026-08-30T07:00"),
		EndDateTime:       strPtr("2026-08-30T19:00"),
		TeamName:          strPtr("Equipe Delta"),
		ResponsibleOffice: strPtr("Cartório 3"),
		HasOccurrences:    boolPtr(false),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, c, http.MethodPost, srv.URL+"/api/officers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, c, http.MethodGet, srv.URL+"/api/report/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.True(t, summary.Valid)
	assert.Equal(t, 1, summary.Officers)
}

func TestExportEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, _ := doJSON(t, c, http.MethodPut, srv.URL+"/api/report", reportUpdate{
		ReportNumber: strPtr("02/2026"),
		TeamName:     strPtr("Equipe Export"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, c, http.MethodGet, srv.URL+"/api/export/html", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Equipe Export")
	assert.Contains(t, string(body), report.NoOccurrencesText)

	resp, body = doJSON(t, c, http.MethodGet, srv.URL+"/api/export/docx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "DOCX é um pacote zip")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Relatório_Plantão_02-2026.docx")

	resp, body = doJSON(t, c, http.MethodGet, srv.URL+"/api/export/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-1.")))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Relatório_Plantão_02-2026.pdf")

	resp, _ = doJSON(t, c, http.MethodGet, srv.URL+"/api/export/xls", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
