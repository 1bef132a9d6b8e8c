package internal

import (
	"gamedash/api/internal/service"
	"gamedash/api/internal/storage"
	"gamedash/api/pkg/security"

	"github.com/chenyahui/gin-cache/persist"
)

type Deps struct {
	Store     storage.Store
	Auth      *service.AuthService
	Analytics *service.AnalyticsService
	Signer    *security.SessionSigner
	Cache     persist.CacheStore
}
