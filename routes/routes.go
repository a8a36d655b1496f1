package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"partflow/services"
)

// B2Config holds the B2 archival configuration.
type B2Config struct {
	KeyID          string
	ApplicationKey string
	BucketName     string
}

// ParserConfig holds the external parser service configuration.
type ParserConfig struct {
	URL     string
	Timeout time.Duration
}

// ServiceContainer holds all services and dependencies.
type ServiceContainer struct {
	DB            *mongo.Database
	JWTSecret     string
	MaxUploadSize int64

	AuthService         *services.AuthService
	GroupService        *services.GroupService
	TagService          *services.TagService
	AssignmentService   *services.AssignmentService
	NotificationService *services.NotificationService
	FileService         *services.FileService
	ParseService        *services.ParseService
	B2Service           *services.B2Service
}

// NewServiceContainer initializes every service. B2 archival is optional:
// with incomplete credentials the parse pipeline simply skips it.
func NewServiceContainer(db *mongo.Database, jwtSecret string, jwtExpiration time.Duration, jwtIssuer string, maxUploadSize int64, b2Config B2Config, parserConfig ParserConfig) (*ServiceContainer, error) {
	var b2Service *services.B2Service
	if b2Config.KeyID != "" && b2Config.ApplicationKey != "" && b2Config.BucketName != "" {
		var err error
		b2Service, err = services.NewB2Service(b2Config.KeyID, b2Config.ApplicationKey, b2Config.BucketName)
		if err != nil {
			return nil, err
		}
	}

	return &ServiceContainer{
		DB:            db,
		JWTSecret:     jwtSecret,
		MaxUploadSize: maxUploadSize,

		AuthService:         services.NewAuthService(db, jwtSecret, jwtExpiration, jwtIssuer),
		GroupService:        services.NewGroupService(db),
		TagService:          services.NewTagService(db),
		AssignmentService:   services.NewAssignmentService(db),
		NotificationService: services.NewNotificationService(db),
		FileService:         services.NewFileService(db),
		ParseService:        services.NewParseService(db, b2Service, parserConfig.URL, parserConfig.Timeout),
		B2Service:           b2Service,
	}, nil
}

// SetupRoutesWithContainer configures all API routes using a service container.
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container.AuthService)
	RegisterGroupRoutes(api, container.JWTSecret, container.GroupService)
	RegisterTagRoutes(api, container.JWTSecret, container.TagService)
	RegisterAssignmentRoutes(api, container.JWTSecret, container.AssignmentService)
	RegisterNotificationRoutes(api, container.JWTSecret, container.NotificationService)
	RegisterFileRoutes(api, container.JWTSecret, container.FileService)
	RegisterParseRoutes(api, container.ParseService, container.MaxUploadSize)
}
