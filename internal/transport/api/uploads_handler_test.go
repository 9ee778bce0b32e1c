package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/fsdevblog/groph-eats/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UploadsHandlerTestSuite struct {
	handlerSuite
}

func TestUploadsHandlerSuite(t *testing.T) {
	suite.Run(t, new(UploadsHandlerTestSuite))
}

func (s *UploadsHandlerTestSuite) multipartBody(field string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "avatar.png")
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(w.Close())
	return &buf, w.FormDataContentType()
}

func (s *UploadsHandlerTestSuite) upload(field string, content []byte) *http.Response {
	body, contentType := s.multipartBody(field, content)
	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + UploadsRoute,
		Body:   body,
	}, testutils.WithHeader("Content-Type", contentType), testutils.WithBearer(s.accessToken("user-1")))
	s.Require().NoError(err)
	return resp
}

func (s *UploadsHandlerTestSuite) TestCreate() {
	s.mockUploadService.EXPECT().MaxBytes().Return(int64(1024)).AnyTimes()

	s.Run("stored", func() {
		s.mockUploadService.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(&service.Upload{URL: "http://localhost/uploads/x.png"}, nil).Times(1)

		resp := s.upload("file", []byte("image bytes"))
		var got service.Upload
		s.envelope(resp, &got)
		s.Equal(http.StatusCreated, resp.StatusCode)
		s.Equal("http://localhost/uploads/x.png", got.URL)
	})

	s.Run("unsupported media", func() {
		s.mockUploadService.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(nil, wrapErr("saving upload", domain.ErrUnsupportedMedia)).Times(1)

		resp := s.upload("file", []byte("plain text"))
		s.envelope(resp, nil)
		s.Equal(http.StatusUnsupportedMediaType, resp.StatusCode)
	})

	s.Run("too large for the service", func() {
		s.mockUploadService.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(nil, wrapErr("saving upload", domain.ErrFileTooLarge)).Times(1)

		resp := s.upload("file", bytes.Repeat([]byte{1}, 2048))
		s.envelope(resp, nil)
		s.Equal(http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	s.Run("body over the hard limit", func() {
		resp := s.upload("file", bytes.Repeat([]byte{1}, 128<<10))
		s.envelope(resp, nil)
		s.Equal(http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	s.Run("missing field", func() {
		resp := s.upload("picture", []byte("image bytes"))
		s.envelope(resp, nil)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}
