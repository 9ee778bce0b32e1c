package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fsdevblog/groph-eats/internal/logger"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
	"github.com/fsdevblog/groph-eats/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-eats/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

var (
	testAccessSecret = []byte("super secret key")
	errUnexpected    = errors.New("disk is on fire")
)

func wrapErr(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// handlerSuite общая часть тестов обработчиков: роутер со всеми сервисами на моках и настоящими токенами.
type handlerSuite struct {
	suite.Suite
	router *gin.Engine
	tokens *tokens.Manager

	mockUserService         *mocks.MockUserServicer
	mockAddressService      *mocks.MockAddressServicer
	mockCatalogService      *mocks.MockCatalogServicer
	mockFavoriteService     *mocks.MockFavoriteServicer
	mockOrderService        *mocks.MockOrderServicer
	mockNotificationService *mocks.MockNotificationServicer
	mockUploadService       *mocks.MockUploadServicer
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.tokens = tokens.NewManager(tokens.ManagerArgs{
		AccessSecret:  testAccessSecret,
		RefreshSecret: []byte("super secret refresh key"),
	})

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.mockAddressService = mocks.NewMockAddressServicer(mockCtrl)
	s.mockCatalogService = mocks.NewMockCatalogServicer(mockCtrl)
	s.mockFavoriteService = mocks.NewMockFavoriteServicer(mockCtrl)
	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockNotificationService = mocks.NewMockNotificationServicer(mockCtrl)
	s.mockUploadService = mocks.NewMockUploadServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:              logger.New(io.Discard),
		Tokens:              s.tokens,
		UserService:         s.mockUserService,
		AddressService:      s.mockAddressService,
		CatalogService:      s.mockCatalogService,
		FavoriteService:     s.mockFavoriteService,
		OrderService:        s.mockOrderService,
		NotificationService: s.mockNotificationService,
		UploadService:       s.mockUploadService,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *handlerSuite) accessToken(userID string) string {
	pair, err := s.tokens.GeneratePair(userID, userID+"@example.com")
	s.Require().NoError(err)
	return pair.AccessToken
}

func (s *handlerSuite) request(method, url string, opts ...func(*testutils.RequestOptions)) *http.Response {
	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    RouteGroup + url,
	}, opts...)
	s.Require().NoError(err)
	return resp
}

// envelope читает ответ и проверяет, что признак success соответствует статусу.
func (s *handlerSuite) envelope(resp *http.Response, data any) *testutils.Envelope {
	env, err := testutils.ReadEnvelope(resp, data)
	s.Require().NoError(err)
	s.Equal(resp.StatusCode < http.StatusBadRequest, env.Success)
	return env
}
