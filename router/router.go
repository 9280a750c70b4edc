package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validators"
	"gorm.io/gorm"
)

// Options carries everything the router wires besides the database.
type Options struct {
	Rules                   validators.BusinessRules
	StrictStatusTransitions bool
	AllowedOrigins          []string
	// Limiter guards the public API. Nil disables rate limiting.
	Limiter middlewares.Limiter
	// StaffLimiter guards login and registration. Nil uses five attempts per minute per IP.
	StaffLimiter middlewares.Limiter
	// Hub receives every event for the live floor feed. Nil creates a fresh hub.
	Hub *floor.Hub
	// Publisher receives every event in addition to the hub, e.g. the message broker.
	Publisher events.Publisher
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		utils.RespondStatus(c, http.StatusNotFound, "Path not found: "+c.Request.URL.Path)
	})
	r.NoMethod(func(c *gin.Context) {
		utils.RespondStatus(c, http.StatusMethodNotAllowed, fmt.Sprintf("%s not allowed for %s", c.Request.Method, c.Request.URL.Path))
	})

	hub := opts.Hub
	if hub == nil {
		hub = floor.NewHub()
	}
	publisher := events.Multi{hub, events.LogPublisher{}}
	if opts.Publisher != nil {
		publisher = append(publisher, opts.Publisher)
	}

	store := repository.NewGormStore(db)
	reservationSvc := services.NewReservationService(store, opts.Rules, publisher, opts.StrictStatusTransitions)
	tableSvc := services.NewTableService(store, publisher)

	reservationCtrl := controllers.NewReservationController(reservationSvc)
	tableCtrl := controllers.NewTableController(tableSvc)
	staffCtrl := controllers.NewStaffController(db)
	floorCtrl := controllers.NewFloorController(hub)
	adminCtrl := controllers.NewAdminController(tableSvc, reservationSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ----------------------------------------------------------------
	//                      FRONT OF HOUSE API
	// ----------------------------------------------------------------
	api := r.Group("/")
	if opts.Limiter != nil {
		api.Use(middlewares.RateLimit(opts.Limiter))
	}
	{
		api.GET("/reservations", reservationCtrl.ListReservations)
		api.POST("/reservations", reservationCtrl.CreateReservation)
		api.GET("/reservations/:reservation_id", reservationCtrl.GetReservation)
		api.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
		api.PUT("/reservations/:reservation_id/status", reservationCtrl.UpdateStatus)

		api.GET("/tables", tableCtrl.GetAllTables)
		api.POST("/tables", tableCtrl.CreateTable)
		api.GET("/tables/:table_id", tableCtrl.GetTableByID)
		api.PUT("/tables/:table_id/seat", tableCtrl.SeatTable)
		api.DELETE("/tables/:table_id/seat", tableCtrl.FinishTable)
	}

	// ----------------------------------------------------------------
	//                      STAFF
	// ----------------------------------------------------------------
	staff := r.Group("/staff")
	if opts.StaffLimiter != nil {
		staff.Use(middlewares.RateLimit(opts.StaffLimiter))
	} else {
		staff.Use(middlewares.NewStrictRateLimiter())
	}
	{
		staff.POST("/register", staffCtrl.Register)
		staff.POST("/login", staffCtrl.Login)
	}
	r.GET("/staff/me", middlewares.AuthMiddleware(), staffCtrl.GetProfile)

	r.GET("/ws/floor", middlewares.AuthMiddleware(), floorCtrl.FloorFeed)

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RoleCheck(models.RoleAdmin))
	{
		admin.GET("/stats", adminCtrl.GetDashboardStats)
		admin.GET("/reservations/export", adminCtrl.ExportDay)
	}

	return r
}
