package api

import (
	"github.com/24061269-star/um-lost-and-found/internal/enrich"
	"github.com/24061269-star/um-lost-and-found/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Item       *service.ItemService
	Moderation *service.ModerationService
	Search     *service.SearchService
	Enrich     *enrich.Service
}
