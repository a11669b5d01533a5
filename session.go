package main

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"relatorio_plantao/report"
)

const sessionName = "plantao-session"

// reportRegistry keeps one in-progress ShiftReport per browser session.
// There is no persistence: a server restart starts every wizard over.
type reportRegistry struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	report    *report.ShiftReport
	exporting bool
}

func newReportRegistry() *reportRegistry {
	return &reportRegistry{sessions: make(map[string]*sessionState)}
}

// withReport runs fn with the session's report under the registry lock.
// Handlers mutate the record only through this.
func (g *reportRegistry) withReport(id string, fn func(*report.ShiftReport)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.stateLocked(id).report)
}

// snapshot returns a copy of the session's report safe to render outside the
// lock. Slice contents are shared but treated as read-only by the renderers.
func (g *reportRegistry) snapshot(id string) *report.ShiftReport {
	g.mu.Lock()
	defer g.mu.Unlock()
	src := g.stateLocked(id).report
	cp := *src
	cp.Officers = append([]report.Officer(nil), src.Officers...)
	cp.Occurrences = append([]report.Occurrence(nil), src.Occurrences...)
	cp.Images = append([]report.Attachment(nil), src.Images...)
	return &cp
}

func (g *reportRegistry) reset(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stateLocked(id).report = report.NewShiftReport()
}

// beginExport flags the session as exporting; false means one is already in
// flight and the caller must refuse the duplicate trigger.
func (g *reportRegistry) beginExport(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.stateLocked(id)
	if st.exporting {
		return false
	}
	st.exporting = true
	return true
}

func (g *reportRegistry) endExport(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stateLocked(id).exporting = false
}

func (g *reportRegistry) stateLocked(id string) *sessionState {
	st, ok := g.sessions[id]
	if !ok {
		st = &sessionState{report: report.NewShiftReport()}
		g.sessions[id] = st
	}
	return st
}

// ensureSession returns the stable ID for this browser, creating the cookie
// on first contact.
func ensureSession(w http.ResponseWriter, r *http.Request) (string, error) {
	session, _ := store.Get(r, sessionName)
	if id, ok := session.Values["sid"].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	session.Values["sid"] = id
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
