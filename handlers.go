package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"relatorio_plantao/report"
)

const maxImageUpload = 10 << 20 // 10 MiB per upload request

func homeHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, cfg.StaticDir+"/index.html")
}

// optionsHandler serves the fixed option lists the wizard selects from.
func optionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{
		"roles":   report.OfficerRoles,
		"offices": report.Offices,
		"natures": report.OccurrenceNatures,
	})
}

func getReportHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var view reportView
	registry.withReport(sid, func(rep *report.ShiftReport) {
		view = viewOf(rep)
	})
	writeJSON(w, view)
}

func updateReportHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var upd reportUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	registry.withReport(sid, func(rep *report.ShiftReport) {
		if upd.ReportDate != nil {
			rep.ReportDate = parseWireTime(*upd.ReportDate, wireDate)
		}
		if upd.ReportNumber != nil {
			rep.ReportNumber = *upd.ReportNumber
		}
		if upd.StartDateTime != nil {
			rep.StartDateTime = parseWireTime(*upd.StartDateTime, wireDateTime)
		}
		if upd.EndDateTime != nil {
			rep.EndDateTime = parseWireTime(*upd.EndDateTime, wireDateTime)
		}
		if upd.TeamName != nil {
			rep.TeamName = *upd.TeamName
		}
		if upd.ResponsibleOffice != nil {
			rep.ResponsibleOffice = *upd.ResponsibleOffice
		}
		if upd.HasOccurrences != nil {
			rep.HasOccurrences = *upd.HasOccurrences
		}
		if upd.Observations != nil {
			rep.Observations = *upd.Observations
		}
	})
	w.WriteHeader(http.StatusOK)
}

func resetReportHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	registry.reset(sid)
	w.WriteHeader(http.StatusOK)
}

// summaryHandler feeds the export page: section counts plus the wizard-level
// completeness check.
func summaryHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var summary struct {
		ReportNumber string `json:"report_number"`
		Officers     int    `json:"officers"`
		Occurrences  int    `json:"occurrences"`
		Images       int    `json:"images"`
		Valid        bool   `json:"valid"`
		Problem      string `json:"problem,omitempty"`
	}
	registry.withReport(sid, func(rep *report.ShiftReport) {
		summary.ReportNumber = rep.ReportNumber
		summary.Officers = len(rep.Officers)
		if rep.HasOccurrences {
			summary.Occurrences = len(rep.Occurrences)
		}
		summary.Images = len(rep.Images)
		if err := rep.Validate(); err != nil {
			summary.Problem = err.Error()
		} else {
			summary.Valid = true
		}
	})
	writeJSON(w, summary)
}

// Officer handlers
func addOfficerHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var created report.Officer
	registry.withReport(sid, func(rep *report.ShiftReport) {
		created = rep.AddOfficer()
	})
	writeJSON(w, created)
}

func updateOfficerHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]

	var upd officerUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	found := false
	registry.withReport(sid, func(rep *report.ShiftReport) {
		o := rep.OfficerByID(id)
		if o == nil {
			return
		}
		found = true
		if upd.Name != nil {
			o.Name = *upd.Name
		}
		if upd.Role != nil {
			o.Role = *upd.Role
		}
	})
	if !found {
		http.Error(w, "Policial não encontrado", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func deleteOfficerHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]
	found := false
	registry.withReport(sid, func(rep *report.ShiftReport) {
		found = rep.RemoveOfficer(id)
	})
	if !found {
		http.Error(w, "Policial não encontrado", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Occurrence handlers
func addOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var created report.Occurrence
	registry.withReport(sid, func(rep *report.ShiftReport) {
		created = rep.AddOccurrence()
	})
	writeJSON(w, created)
}

func updateOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]

	var upd occurrenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	found := false
	registry.withReport(sid, func(rep *report.ShiftReport) {
		o := rep.OccurrenceByID(id)
		if o == nil {
			return
		}
		found = true
		if upd.RAINumber != nil {
			o.RAINumber = *upd.RAINumber
		}
		if upd.Nature != nil {
			o.Nature = *upd.Nature
		}
		if upd.Summary != nil {
			o.Summary = *upd.Summary
		}
		if upd.ResponsibleOffice != nil {
			o.ResponsibleOffice = *upd.ResponsibleOffice
		}
	})
	if !found {
		http.Error(w, "Ocorrência não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func deleteOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]
	found := false
	registry.withReport(sid, func(rep *report.ShiftReport) {
		found = rep.RemoveOccurrence(id)
	})
	if !found {
		http.Error(w, "Ocorrência não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Image handlers
func uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		http.Error(w, "Upload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Arquivo ausente no upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUpload))
	if err != nil {
		http.Error(w, "Erro lendo o arquivo: "+err.Error(), http.StatusInternalServerError)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	description := r.FormValue("description")

	var created report.Attachment
	registry.withReport(sid, func(rep *report.ShiftReport) {
		created = rep.AddImage(data, contentType, description)
	})
	writeJSON(w, imageView{ID: created.ID, Description: created.Description, DataURL: created.DataURL()})
}

func updateImageHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]

	var upd struct {
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	found := false
	registry.withReport(sid, func(rep *report.ShiftReport) {
		img := rep.ImageByID(id)
		if img == nil {
			return
		}
		found = true
		if upd.Description != nil {
			img.Description = *upd.Description
		}
	})
	if !found {
		http.Error(w, "Imagem não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]
	found := false
	registry.withReport(sid, func(rep *report.ShiftReport) {
		found = rep.RemoveImage(id)
	})
	if !found {
		http.Error(w, "Imagem não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// exportHandler renders one of the three output formats and streams it as a
// download. Exports never mutate the report; a duplicate trigger while one is
// in flight is refused.
func exportHandler(w http.ResponseWriter, r *http.Request) {
	sid, err := ensureSession(w, r)
	if err != nil {
		http.Error(w, "Erro de sessão: "+err.Error(), http.StatusInternalServerError)
		return
	}
	format := mux.Vars(r)["format"]

	if !registry.beginExport(sid) {
		http.Error(w, "Já existe uma exportação em andamento", http.StatusConflict)
		return
	}
	defer registry.endExport(sid)

	rep := registry.snapshot(sid)

	switch format {
	case "html":
		doc, err := report.RenderHTML(rep)
		if err != nil {
			sugar.Errorw("falha gerando HTML", "error", err)
			http.Error(w, "Não foi possível gerar a visualização", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, doc)

	case "docx":
		data, err := report.RenderDOCX(rep, emblems)
		if err != nil {
			sugar.Errorw("falha gerando DOCX", "error", err)
			http.Error(w, "Não foi possível gerar o arquivo DOCX. Tente novamente.", http.StatusInternalServerError)
			return
		}
		sendAttachment(w, data,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			report.ExportFileName(rep.ReportNumber, "docx"))

	case "pdf":
		data, err := report.RenderPDF(rep, emblems)
		if err != nil {
			sugar.Errorw("falha gerando PDF", "error", err)
			http.Error(w, "Não foi possível gerar o arquivo PDF. Tente novamente.", http.StatusInternalServerError)
			return
		}
		sendAttachment(w, data, "application/pdf",
			report.ExportFileName(rep.ReportNumber, "pdf"))

	default:
		http.Error(w, "Formato de exportação desconhecido", http.StatusBadRequest)
	}
}

func sendAttachment(w http.ResponseWriter, data []byte, contentType, fileName string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
