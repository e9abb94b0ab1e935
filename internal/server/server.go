package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"marketplace-api/internal/handler"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/service"
)

type Server struct {
	echo              *echo.Echo
	jwtSecret         string
	productHandler    *handler.ProductHandler
	cartHandler       *handler.CartHandler
	orderHandler      *handler.OrderHandler
	paymentHandler    *handler.PaymentHandler
	engagementHandler *handler.EngagementHandler
	reportHandler     *handler.ReportHandler
	profileHandler    *handler.ProfileHandler
}

func NewServer(
	jwtSecret string,
	catalogService service.CatalogService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	paymentService service.PaymentService,
	engagementService service.EngagementService,
	reportService service.ReportService,
	profileService service.ProfileService,
) *Server {
	e := echo.New()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:              e,
		jwtSecret:         jwtSecret,
		productHandler:    handler.NewProductHandler(catalogService),
		cartHandler:       handler.NewCartHandler(cartService),
		orderHandler:      handler.NewOrderHandler(checkoutService, reportService),
		paymentHandler:    handler.NewPaymentHandler(paymentService),
		engagementHandler: handler.NewEngagementHandler(engagementService),
		reportHandler:     handler.NewReportHandler(reportService),
		profileHandler:    handler.NewProfileHandler(profileService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// browsing is open, everything else requires an identity
	api.GET("/products", s.productHandler.List)
	api.GET("/products/:id", s.productHandler.Get)
	api.GET("/categories", s.productHandler.Categories)

	auth := api.Group("", middleware.Auth(s.jwtSecret))

	auth.POST("/products", s.productHandler.Create)
	auth.PUT("/products/:id", s.productHandler.Update)
	auth.DELETE("/products/:id", s.productHandler.Delete)
	auth.POST("/products/:id/rating", s.engagementHandler.Rate)
	auth.POST("/products/:id/like", s.engagementHandler.Like)

	auth.GET("/cart", s.cartHandler.View)
	auth.POST("/cart/items", s.cartHandler.AddItem)
	auth.DELETE("/cart/items/:productID", s.cartHandler.RemoveItems)

	auth.POST("/orders/complete", s.orderHandler.Complete)
	auth.GET("/orders/history", s.orderHandler.History)
	auth.DELETE("/orders/:id", s.cartHandler.DeleteOrder)

	auth.GET("/profile", s.profileHandler.Get)
	auth.POST("/payment-types", s.paymentHandler.Create)
	auth.GET("/payment-types", s.paymentHandler.List)
	auth.DELETE("/payment-types/:id", s.paymentHandler.Delete)

	auth.GET("/reports/abandoned-products", s.reportHandler.AbandonedProducts)
	auth.GET("/reports/multiple-open-orders", s.reportHandler.MultipleOpenOrders)
	auth.GET("/reports/seller-products", s.reportHandler.SellerProducts)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
