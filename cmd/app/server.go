package main

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/admin"
	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/banner"
	"github.com/wichananm65/catalog-admin-backend/internal/category"
	"github.com/wichananm65/catalog-admin-backend/internal/config"
	"github.com/wichananm65/catalog-admin-backend/internal/logger"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
	"github.com/wichananm65/catalog-admin-backend/internal/pricelist"
	"github.com/wichananm65/catalog-admin-backend/internal/product"
	"github.com/wichananm65/catalog-admin-backend/internal/quickshopping"
)

// services holds everything the HTTP layer needs. It is built once at startup.
type services struct {
	admins        *admin.Service
	categories    *category.Service
	products      *product.Service
	banners       *banner.Service
	priceLists    *pricelist.Service
	quickShopping *quickshopping.Service
}

func postgresServices(db *sql.DB, janitor *media.Janitor, cfg *config.Config, log *zap.Logger) services {
	categories := category.NewService(category.NewPostgresRepository(db))
	products := product.NewService(product.NewPostgresRepository(db), categories, janitor, log)
	return services{
		admins:        admin.NewService(admin.NewPostgresRepository(db), cfg.JWT.Secret, cfg.JWT.TTL),
		categories:    categories,
		products:      products,
		banners:       banner.NewService(banner.NewPostgresRepository(db), janitor, log),
		priceLists:    pricelist.NewService(pricelist.NewPostgresRepository(db), janitor, log),
		quickShopping: quickshopping.NewService(quickshopping.NewPostgresRepository(db), categories, products, log),
	}
}

func newApp(cfg *config.Config, log *zap.Logger, svc services) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.BodyLimit,
		ErrorHandler:          apperr.Handler(log),
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.Middleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if cfg.Media.Driver == "local" {
		app.Static(cfg.Media.PublicBase, cfg.Media.LocalDir)
	}

	adminHandler := admin.NewHandler(svc.admins)
	categoryHandler := category.NewHandler(svc.categories)
	productHandler := product.NewHandler(svc.products)
	bannerHandler := banner.NewHandler(svc.banners)
	priceListHandler := pricelist.NewHandler(svc.priceLists)
	quickShoppingHandler := quickshopping.NewHandler(svc.quickShopping)

	adminHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	bannerHandler.RegisterPublicRoutes(app)

	// everything registered below requires an active admin
	app.Use(admin.JWT(cfg.JWT.Secret), admin.RequireAdmin(svc.admins))

	adminHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	bannerHandler.RegisterProtectedRoutes(app)
	priceListHandler.RegisterProtectedRoutes(app)
	quickShoppingHandler.RegisterProtectedRoutes(app)

	return app
}
