package handler

import (
	"net/http"
	"sync"

	config "bhoomi-advisory-api/configs"
	"bhoomi-advisory-api/pkg/handlers"

	"github.com/gin-gonic/gin"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp builds the Gin application once per serverless instance.
// Environment variables come from the platform, so godotenv is skipped.
func setupApp() *gin.Engine {
	once.Do(func() {
		cfg := config.LoadConfig()
		app = handlers.SetupRouter(cfg)
	})
	return app
}

// Handler is the serverless entrypoint for all requests.
func Handler(w http.ResponseWriter, r *http.Request) {
	setupApp().ServeHTTP(w, r)
}
