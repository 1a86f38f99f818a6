package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	appsvc "pdfchat/internal/app"
	"pdfchat/internal/bootstrap"
	"pdfchat/internal/pkg/pdfextract"
	"pdfchat/internal/transport/http/handler"
)

// NewHandler builds the full HTTP surface: the two API endpoints, a health
// check and the static client page, with CORS around everything.
func NewHandler(app *bootstrap.App) http.Handler {
	ingestService := appsvc.NewIngestService(pdfextract.ExtractPages, app.AI, app.AI, app.Index)
	answerService := appsvc.NewAnswerService(app.AI, app.AI, app.Index)

	router := NewRouter(app, ingestService, answerService)
	return cors.Default().Handler(router)
}

// NewRouter registers all routes on a fresh gin engine. Services are passed
// in so tests can mount the same routes over fakes.
func NewRouter(app *bootstrap.App, ingestService *appsvc.IngestService, answerService *appsvc.AnswerService) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.StaticFile("/", "web/index.html")
	router.GET("/healthz", handler.NewHealthHandler(app).Check)

	uploadHandler := handler.NewUploadHandler(ingestService)
	questionHandler := handler.NewQuestionHandler(answerService)

	api := router.Group("/api")
	api.POST("/upload", uploadHandler.Upload)
	api.POST("/question", questionHandler.Ask)

	return router
}
