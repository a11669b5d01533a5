package report

import (
	"os"

	"go.uber.org/zap"
)

// Emblems carries the two institutional coat-of-arms images embedded in the
// DOCX and PDF outputs. It is loaded once at startup and passed into each
// renderer invocation; an empty slice means the asset was unavailable and the
// renderer lays out the header without it.
type Emblems struct {
	State  []byte
	Police []byte
}

// LoadEmblems reads both emblem files. A missing or unreadable file is logged
// and replaced by an empty buffer; loading never fails the caller.
func LoadEmblems(log *zap.SugaredLogger, statePath, policePath string) Emblems {
	read := func(path string) []byte {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warnw("brasão indisponível, documentos sairão sem a imagem", "path", path, "error", err)
			return nil
		}
		return data
	}
	return Emblems{State: read(statePath), Police: read(policePath)}
}

// Empty reports whether neither emblem was loaded.
func (e Emblems) Empty() bool {
	return len(e.State) == 0 && len(e.Police) == 0
}
