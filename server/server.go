package server

import (
	"errors"
	"socialfeed/models"
	"socialfeed/prompts"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Largest page size served by /feed
const maxFeedLimit = 50

// FeedStore is the set of store operations the HTTP handlers rely on
type FeedStore interface {
	GetFeed(cursor string, limit int) ([]models.Post, *string)
	GetProfile(id string) (models.Profile, bool)
	GetPostsByAuthor(id string) []models.Post
	GetPost(id string) (models.Post, bool)
	GetComments(postId string) ([]models.Comment, bool)
	ToggleLike(postId, userId string) (liked, ok bool)
	AddComment(postId, userId, text string) (models.Comment, bool)
	AddShare(postId, userId string) bool
}

type ServerConfig struct {

	// The store backing all feed, profile and interaction routes
	Store FeedStore

	// Prompt templates served under /prompts, optional
	Prompts *prompts.Registry

	// Broadcaster for interaction events streamed to SSE clients, optional
	Broadcaster *Broadcaster

	// Page size bounds for the feed
	DefaultLimit int
	MaxLimit     int

	// Comma separated list of allowed CORS origins
	AllowOrigins string

	// Tracer provider for request spans, defaults to the global provider
	TracerProvider trace.TracerProvider
}

type handlers struct {
	config *ServerConfig
}

// Returns a fiber.App instance to be used as an HTTP server for the social feed
func Server(config *ServerConfig) *fiber.App {
	if config.DefaultLimit == 0 {
		config.DefaultLimit = 20
	}
	if config.MaxLimit <= 0 || config.MaxLimit > maxFeedLimit {
		config.MaxLimit = maxFeedLimit
	}
	if config.AllowOrigins == "" {
		config.AllowOrigins = "*"
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(tracing(config.TracerProvider))

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		latency := time.Since(start)
		status := responseStatus(c, err)

		httpRequestDuration.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Observe(latency.Seconds())

		log.WithFields(log.Fields{
			"method":    c.Method(),
			"route":     c.Route().Path,
			"status":    status,
			"latency":   latency,
			"requestId": c.Locals("requestid"),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(compress.New(compress.Config{
		// Event streams are flushed per event and must not be buffered
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/events"
		},
	}))

	// Credentials can only be allowed for an explicit origin list
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowOrigins,
		AllowCredentials: config.AllowOrigins != "*",
	}))

	h := &handlers{config: config}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/feed", h.getFeed)
	app.Get("/profiles/:id", h.getProfile)
	app.Get("/posts/:id/comments", h.getComments)
	app.Post("/posts/:id/like", h.likePost)
	app.Post("/posts/:id/comment", h.commentPost)
	app.Post("/posts/:id/share", h.sharePost)

	if config.Prompts != nil {
		app.Get("/prompts", h.listPrompts)
		app.Get("/prompts/:name", h.getPrompt)
	}

	if config.Broadcaster != nil {
		app.Get("/events", h.streamEvents)
		app.Delete("/events", h.removeEventClient)
	}

	return app
}

// errorHandler renders errors as {"detail": "..."}
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"error": err,
			"path":  c.Path(),
		}).Error("Unhandled error")
	}
	return detail(c, code, err.Error())
}

// responseStatus is the status the client will see once errorHandler has
// rendered err
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}
