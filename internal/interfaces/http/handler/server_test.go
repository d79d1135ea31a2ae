package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cartapp "github.com/erp/storefront/internal/application/cart"
	catalogapp "github.com/erp/storefront/internal/application/catalog"
	customerapp "github.com/erp/storefront/internal/application/customer"
	identityapp "github.com/erp/storefront/internal/application/identity"
	orderingapp "github.com/erp/storefront/internal/application/ordering"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/infrastructure/auth"
	"github.com/erp/storefront/internal/infrastructure/config"
	"github.com/erp/storefront/internal/infrastructure/event"
	"github.com/erp/storefront/internal/infrastructure/persistence"
	"github.com/erp/storefront/internal/interfaces/http/middleware"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/erp/storefront/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testServer is the whole API wired over an in-memory SQLite database
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   *identityapp.AuthService
	jwt    *auth.JWTService
	orders *testutil.MockEventHandler
}

type serverOption func(*serverOptions)

type serverOptions struct {
	openDirectory bool
	limiter       *middleware.RateLimiter
}

func withClosedDirectory() serverOption {
	return func(o *serverOptions) { o.openDirectory = false }
}

func withAuthLimiter(l *middleware.RateLimiter) serverOption {
	return func(o *serverOptions) { o.limiter = l }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	options := serverOptions{openDirectory: true}
	for _, opt := range opts {
		opt(&options)
	}

	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()

	bus := event.NewInMemoryEventBus(log)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	productRepo := persistence.NewGormProductRepository(db)
	collectionRepo := persistence.NewGormCollectionRepository(db)
	reviewRepo := persistence.NewGormReviewRepository(db)
	cartRepo := persistence.NewGormCartRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	orderEvents := testutil.NewMockEventHandler(ordering.EventTypeOrderCreated)
	bus.Subscribe(orderEvents)
	bus.Subscribe(customerapp.NewProfileProvisioningHandler(customerRepo, log))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-key-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
	})
	authService := identityapp.NewAuthService(userRepo, jwtService, bus, log)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Authenticate(jwtService, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	Mount(r,
		NewProductHandler(catalogapp.NewProductService(productRepo, collectionRepo, decimal.NewFromFloat(0.1), bus, log)),
		NewCollectionHandler(catalogapp.NewCollectionService(collectionRepo)),
		NewReviewHandler(catalogapp.NewReviewService(reviewRepo, productRepo)),
		NewCartHandler(cartapp.NewCartService(cartRepo, log)),
		NewCustomerHandler(customerapp.NewCustomerService(customerRepo, userRepo, orderRepo, log), options.openDirectory),
		NewOrderHandler(orderingapp.NewOrderService(
			persistence.NewGormPlacementUnitOfWork(db, 3), orderRepo, customerRepo, bus, log,
		)),
		NewAuthHandler(authService, options.limiter),
	)
	r.Setup()

	return &testServer{
		engine: engine,
		db:     db,
		auth:   authService,
		jwt:    jwtService,
		orders: orderEvents,
	}
}

// do sends a request to /api/v1 + path
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Request(t, s.engine, method, "/api/v1"+path, body, token)
}

// user creates an account and returns an access token for it
func (s *testServer) user(t *testing.T, username string, staff bool) string {
	t.Helper()
	user, err := s.auth.CreateUser(context.Background(), identityapp.NewUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		IsStaff:  staff,
	})
	require.NoError(t, err)

	tokens, err := s.jwt.GenerateTokenPair(identityapp.PrincipalFor(user))
	require.NoError(t, err)
	return tokens.AccessToken
}

func (s *testServer) createCollection(t *testing.T, staff, title string) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodPost, "/collections", map[string]any{"title": title}, staff)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeData[catalogapp.CollectionResponse](t, w).ID
}

func (s *testServer) createProduct(t *testing.T, staff string, collectionID uuid.UUID, slug, price string) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodPost, "/products", map[string]any{
		"title":         "Product " + slug,
		"description":   "A " + slug,
		"slug":          slug,
		"inventory":     10,
		"unit_price":    price,
		"collection_id": collectionID,
	}, staff)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeData[catalogapp.ProductResponse](t, w).ID
}

func (s *testServer) createCart(t *testing.T) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodPost, "/carts", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeData[cartapp.CartResponse](t, w).ID
}

func (s *testServer) addItem(t *testing.T, cartID, productID uuid.UUID, quantity int) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/carts/"+cartID.String()+"/items", map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
