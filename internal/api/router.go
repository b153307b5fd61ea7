package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"lunary-backend/internal/cosmic"
	"lunary-backend/internal/invalidation"
	"lunary-backend/internal/mw"
	"lunary-backend/internal/retrograde"
	"lunary-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, svc *cosmic.Service, inv *invalidation.Coordinator, retro *retrograde.Table, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, svc, inv, retro, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(10), 5)

	// Global cosmic data and retrograde status are identical for everyone;
	// cache the rendered responses for five minutes.
	cacheStore := cache.New(5*time.Minute, 10*time.Minute)
	caching := mw.Cache(cacheStore, 5*time.Minute)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/cosmic/today", caching, handler.GetGlobalCosmic)
		api.GET("/retrograde", caching, handler.GetRetrogradeStatus)

		api.GET("/users/:user_id/snapshot", handler.GetUserSnapshot)
		api.PUT("/users/:user_id/birth-chart", handler.PutBirthChart)

		api.PUT("/push_subscriptions", handler.PutPushSubscription)
		api.DELETE("/push_subscriptions", handler.DeletePushSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
