package accountservice

import (
	"log/slog"
	"time"

	"hanafiyah/contexts/identity-access/account-service/adapters/crypto"
	httpadapter "hanafiyah/contexts/identity-access/account-service/adapters/http"
	"hanafiyah/contexts/identity-access/account-service/adapters/jwt"
	"hanafiyah/contexts/identity-access/account-service/adapters/memory"
	"hanafiyah/contexts/identity-access/account-service/application"
	"hanafiyah/contexts/identity-access/account-service/domain/entities"
	"hanafiyah/contexts/identity-access/account-service/ports"

	"golang.org/x/crypto/bcrypt"
)

// Module is the composition surface for accounts.
// Handler serves HTTP; Service is consumed by authentication middleware and
// cross-context bridges; Store is exposed for tests.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Users      ports.UserRepository
	Blacklist  ports.TokenBlacklist
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	IDs        ports.IDGenerator
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Users:      deps.Users,
		Blacklist:  deps.Blacklist,
		Hasher:     deps.Hasher,
		Tokens:     deps.Tokens,
		Clock:      deps.Clock,
		IDs:        deps.IDs,
		AccessTTL:  deps.AccessTTL,
		RefreshTTL: deps.RefreshTTL,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// TestSigningSecret signs tokens for in-memory modules.
const TestSigningSecret = "in-memory-signing-secret"

// NewInMemoryModule wires accounts against in-memory adapters with a cheap
// bcrypt cost. Seed users carry plain PasswordHash values produced by the
// same hasher, see HashPassword.
func NewInMemoryModule(seed []entities.User, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	tokens, _ := jwt.NewHMACTokens(TestSigningSecret, "hanafiyah")
	module := NewModule(Dependencies{
		Users:      store,
		Blacklist:  store,
		Hasher:     crypto.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     tokens,
		Clock:      store,
		IDs:        store,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		Logger:     logger,
	})
	module.Store = store
	return module
}

// HashPassword hashes with the in-memory module's cost, for seeding.
func HashPassword(password string) string {
	hash, _ := crypto.BcryptHasher{Cost: bcrypt.MinCost}.Hash(password)
	return hash
}
