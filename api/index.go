package handler

import (
	"net/http"
	"rental/config"
	"rental/di"
	"rental/shared/logger"
	"sync"
)

var (
	router http.Handler
	once   sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		router = di.InitializeService().Handler()
	})

	r.RequestURI = r.URL.String()

	router.ServeHTTP(w, r)
}
