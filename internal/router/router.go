package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/storefront/api/handler"
)

type Handlers struct {
	Health   *apiHandler.HealthHandler
	Auth     *apiHandler.AuthHandler
	Site     *apiHandler.SiteHandler
	Product  *apiHandler.ProductHandler
	Category *apiHandler.CategoryHandler
	Slide    *apiHandler.SlideHandler
	Contact  *apiHandler.ContactHandler
	Data     *apiHandler.DataHandler
	Upload   *apiHandler.UploadHandler

	// ContactLimit guards the public contact endpoints. Nil leaves them open.
	ContactLimit func(fasthttp.RequestHandler) fasthttp.RequestHandler
}

// Media serves uploaded files under PublicPath from Root.
type Media struct {
	PublicPath string
	Root       string
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, media *Media) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public storefront
	r.GET("/api/v1/site", handlers.Site.Public)
	r.GET("/api/v1/categories", handlers.Category.List)
	r.GET("/api/v1/categories/{slug}", handlers.Category.GetBySlug)
	r.GET("/api/v1/categories/{slug}/products", handlers.Product.ListByCategory)
	r.GET("/api/v1/products", handlers.Product.List)
	r.GET("/api/v1/products/{id}", handlers.Product.Get)
	r.GET("/api/v1/products/{id}/related", handlers.Product.Related)
	r.GET("/api/v1/slides", handlers.Slide.List)
	r.GET("/api/v1/contact", handlers.Contact.Form)
	limit := handlers.ContactLimit
	if limit == nil {
		limit = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}
	r.POST("/api/v1/contact", limit(handlers.Contact.Submit))
	if handlers.Upload != nil {
		r.POST("/api/v1/contact/upload", limit(handlers.Upload.ContactUpload))
	}

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)

	// Protected routes
	admin := r.Group("/api/v1/admin")
	admin.GET("/me", authMiddleware(handlers.Auth.Me))

	admin.GET("/products", authMiddleware(handlers.Product.List))
	admin.POST("/products", authMiddleware(handlers.Product.Create))
	admin.GET("/products/{id}", authMiddleware(handlers.Product.Get))
	admin.PUT("/products/{id}", authMiddleware(handlers.Product.Update))
	admin.DELETE("/products/{id}", authMiddleware(handlers.Product.Delete))

	admin.GET("/categories", authMiddleware(handlers.Category.List))
	admin.POST("/categories", authMiddleware(handlers.Category.Create))
	admin.GET("/categories/{id}", authMiddleware(handlers.Category.Get))
	admin.PUT("/categories/{id}", authMiddleware(handlers.Category.Update))
	admin.DELETE("/categories/{id}", authMiddleware(handlers.Category.Delete))

	admin.GET("/slides", authMiddleware(handlers.Slide.List))
	admin.POST("/slides", authMiddleware(handlers.Slide.Create))
	admin.GET("/slides/{id}", authMiddleware(handlers.Slide.Get))
	admin.PUT("/slides/{id}", authMiddleware(handlers.Slide.Update))
	admin.DELETE("/slides/{id}", authMiddleware(handlers.Slide.Delete))
	admin.POST("/slides/{id}/move", authMiddleware(handlers.Slide.Move))

	admin.GET("/site", authMiddleware(handlers.Site.GetInfo))
	admin.PUT("/site", authMiddleware(handlers.Site.UpdateInfo))
	admin.GET("/stats", authMiddleware(handlers.Site.Stats))

	admin.GET("/contact", authMiddleware(handlers.Contact.List))
	admin.GET("/contact/{id}", authMiddleware(handlers.Contact.View))
	admin.PUT("/contact/{id}/status", authMiddleware(handlers.Contact.SetStatus))
	admin.DELETE("/contact/{id}", authMiddleware(handlers.Contact.Delete))

	admin.GET("/data", authMiddleware(handlers.Data.Get))
	admin.POST("/data", authMiddleware(handlers.Data.Replace))
	admin.DELETE("/data", authMiddleware(handlers.Data.Prune))
	admin.GET("/data/snapshots", authMiddleware(handlers.Data.Snapshots))
	admin.POST("/data/seed", authMiddleware(handlers.Data.Seed))

	if handlers.Upload != nil {
		admin.POST("/upload", authMiddleware(handlers.Upload.Upload))
	}

	if media != nil && media.Root != "" {
		fs := &fasthttp.FS{
			Root:               media.Root,
			PathRewrite:        fasthttp.NewPathPrefixStripper(len(media.PublicPath)),
			Compress:           true,
			AcceptByteRange:    true,
			GenerateIndexPages: false,
		}
		r.GET(media.PublicPath+"/{filepath:*}", fs.NewRequestHandler())
	}

	return r
}
