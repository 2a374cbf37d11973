package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"dorm-rental-backend/config"
	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/mw"
	"dorm-rental-backend/internal/notification"
)

// RouterOptions carries the pieces of the router that main also needs to manage.
type RouterOptions struct {
	Server  config.ServerConfig
	Limiter *mw.IPRateLimiter
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.Default()
	if opts.Server.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = opts.Server.MaxUploadBytes
	}
	r.Use(mw.CORS(opts.Server.AllowedOrigins))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware())
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = mw.NewIPRateLimiter(rate.Limit(opts.Server.RateLimitPerSec), opts.Server.RateLimitBurst)
	}

	// Public listings are cached until they expire or any dorm changes.
	caching := func(c *gin.Context) { c.Next() }
	if opts.Server.CacheTTL > 0 {
		rc := mw.NewResponseCache(opts.Server.CacheTTL)
		caching = rc.Middleware()
		if h.events != nil {
			h.events.OnPublish(func(notification.Event) { rc.Flush() })
		}
	}

	if h.uploads != nil {
		r.Static("/uploads", h.uploads.Dir())
	}

	api := r.Group("/api")
	api.GET("/health", h.Health)
	if h.metrics != nil {
		api.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
	// The event stream is long-lived and stays outside the rate limit.
	api.GET("/events", h.StreamEvents)

	limited := api.Group("")
	limited.Use(limiter.Middleware())
	{
		limited.POST("/auth/register", h.Register)
		limited.POST("/auth/login", h.Login)

		limited.GET("/dorms", caching, h.ListDorms)
		limited.GET("/dorms/:id", caching, h.GetDorm)

		limited.GET("/regions/provinces", h.ListProvinces)
		limited.GET("/regions/provinces/:id/districts", h.ListDistricts)
		limited.GET("/regions/districts/:id/subdistricts", h.ListSubdistricts)

		limited.GET("/subscriptions", h.GetSubscription)
		limited.PUT("/subscriptions", h.PutSubscription)
		limited.DELETE("/subscriptions", h.DeleteSubscription)
		limited.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	authed := limited.Group("")
	authed.Use(mw.Authenticate(h.tokens))
	{
		authed.GET("/me", h.GetMe)
		authed.PATCH("/me", h.UpdateMe)
	}

	owner := authed.Group("/owner")
	owner.Use(mw.RequireRole(auth.RoleOwner))
	{
		owner.GET("/dorms", h.ListOwnerDorms)
		owner.POST("/dorms", h.CreateDorm)
		owner.GET("/dorms/:id", h.GetOwnerDorm)
		owner.PUT("/dorms/:id", h.UpdateDorm)
		owner.DELETE("/dorms/:id", h.DeleteDorm)
		owner.POST("/dorms/:id/images", h.UploadDormImages)
		owner.DELETE("/dorms/:id/images/:imageId", h.DeleteDormImage)

		owner.GET("/dorms/:id/rooms", h.ListRooms)
		owner.POST("/dorms/:id/rooms", h.CreateRoom)
		owner.GET("/dorms/:id/rooms/summary", h.RoomSummary)

		owner.GET("/rooms/:roomId", h.GetRoom)
		owner.PUT("/rooms/:roomId", h.UpdateRoom)
		owner.DELETE("/rooms/:roomId", h.DeleteRoom)
		owner.POST("/rooms/:roomId/move-in", h.MoveIn)
		owner.POST("/rooms/:roomId/move-out", h.MoveOut)
		owner.PUT("/rooms/:roomId/meters", h.RecordMeters)
		owner.POST("/rooms/:roomId/bills/preview", h.PreviewBill)
		owner.POST("/rooms/:roomId/bills", h.FinalizeBill)
		owner.GET("/rooms/:roomId/bills", h.ListBills)
	}

	admin := authed.Group("/admin")
	admin.Use(mw.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/dorms", h.AdminListDorms)
		admin.GET("/dorms/:id", h.AdminGetDorm)
		admin.POST("/dorms/:id/approve", h.ApproveDorm)
		admin.POST("/dorms/:id/reject", h.RejectDorm)
		admin.DELETE("/dorms/:id", h.AdminDeleteDorm)
	}

	return r
}
