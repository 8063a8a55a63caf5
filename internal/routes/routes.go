package routes

import (
	"erp-backend/internal/access"
	"erp-backend/internal/handler"
	"erp-backend/internal/usecase"
)

// Deps carries what the route groups need to build their handlers.
type Deps struct {
	JWTSecret string
	Resolver  *access.Resolver
	Files     handler.FileOpener

	Auth           *usecase.AuthUsecase
	Profiles       *usecase.ProfileUsecase
	Leave          *usecase.LeaveUsecase
	HelpDesk       *usecase.HelpDeskUsecase
	Correspondence *usecase.CorrespondenceUsecase
	Notifications  *usecase.NotificationUsecase
}
