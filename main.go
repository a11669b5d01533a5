package main

import (
	"flag"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"relatorio_plantao/report"
)

var (
	cfg      Config
	store    *sessions.CookieStore
	registry = newReportRegistry()
	emblems  report.Emblems
	sugar    *zap.SugaredLogger
)

func main() {
	configPath := flag.String("config", "config.yaml", "caminho do arquivo de configuração")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar = logger.Sugar()

	cfg = loadConfig(*configPath, sugar)

	store = sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	// One load per process; the renderers receive the value explicitly.
	emblems = report.LoadEmblems(sugar, cfg.Emblems.State, cfg.Emblems.Police)

	r := newRouter()

	sugar.Infow("servidor iniciando", "addr", cfg.Listen)
	sugar.Fatal(http.ListenAndServe(cfg.Listen, r))
}

func newRouter() *mux.Router {
	r := mux.NewRouter()

	// Static files
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// Routes
	r.HandleFunc("/", homeHandler).Methods("GET")
	r.HandleFunc("/api/options", optionsHandler).Methods("GET")
	r.HandleFunc("/api/report", getReportHandler).Methods("GET")
	r.HandleFunc("/api/report", updateReportHandler).Methods("PUT")
	r.HandleFunc("/api/report/reset", resetReportHandler).Methods("POST")
	r.HandleFunc("/api/report/summary", summaryHandler).Methods("GET")
	r.HandleFunc("/api/officers", addOfficerHandler).Methods("POST")
	r.HandleFunc("/api/officers/{id}", updateOfficerHandler).Methods("PUT")
	r.HandleFunc("/api/officers/{id}", deleteOfficerHandler).Methods("DELETE")
	r.HandleFunc("/api/occurrences", addOccurrenceHandler).Methods("POST")
	r.HandleFunc("/api/occurrences/{id}", updateOccurrenceHandler).Methods("PUT")
	r.HandleFunc("/api/occurrences/{id}", deleteOccurrenceHandler).Methods("DELETE")
	r.HandleFunc("/api/images", uploadImageHandler).Methods("POST")
	r.HandleFunc("/api/images/{id}", updateImageHandler).Methods("PUT")
	r.HandleFunc("/api/images/{id}", deleteImageHandler).Methods("DELETE")
	r.HandleFunc("/api/export/{format}", exportHandler).Methods("GET")
	return r
}
