package handler

import (
	"net/http"

	"github.com/friendlines/interview-api/internal/api/response"
	"github.com/friendlines/interview-api/internal/repository/mongo"
	"github.com/friendlines/interview-api/internal/repository/postgres"
	"github.com/friendlines/interview-api/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including backing-store connectivity
func ReadyCheck(db *postgres.DB, mongoClient *mongo.Client, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
		if err := mongoClient.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "session store not ready")
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "redis not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
