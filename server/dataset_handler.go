package server

import (
	"net/http"
	"path"

	"github.com/rs/zerolog/log"
)

// DatasetHandler publishes the credential datasets (GET /datasets/{file}). Only JSON
// files at the top of the dataset folder are served.
func (s *Server) DatasetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file := r.PathValue("file")
		if s.datasets == nil || path.Ext(file) != ".json" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		if err := streamFrom(w, s.datasets, file); err != nil {
			log.Err(err).Str("file", file).Msg("Dataset not served")
			w.Header().Del("Cache-Control")
			http.NotFound(w, r)
		}
	}
}
