package clients

import (
	"migration-reconciler/core/metrics"
	"migration-reconciler/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies bundles the collaborators of the clients feature. Storage and
// DB are optional.
type Dependencies struct {
	Storage storage.Client
	Bucket  string
	Region  string
	DB      *gorm.DB
	Metrics *metrics.Manager
	Logger  *zap.Logger
}

// NewServiceFromConfig wires a codec, store and service from configuration.
func NewServiceFromConfig(cfg Config, deps Dependencies) (*Service, error) {
	codec, err := NewCodec(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	store := NewStore(deps.Storage, deps.Bucket, deps.Region, deps.DB, codec)

	l := deps.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return NewService(store, cfg, deps.Metrics, l), nil
}

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new clients feature.
func NewFeature(svc *Service) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "clients"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
