package app

import (
	"shiftdesk/config"
	"shiftdesk/internal/services"
	"shiftdesk/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	Store       storage.Store
	RedisClient *redis.Client
	Validator   *validator.Validate
	Registry    *prometheus.Registry

	UserService        services.UserService
	ShiftService       services.ShiftService
	ApplicationService services.ApplicationService
	JobService         services.JobService
}
