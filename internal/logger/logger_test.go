package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (s *LoggerTestSuite) TestReleaseModeIsJSON() {
	s.T().Setenv("GIN_MODE", "release")

	var buf bytes.Buffer
	l := New(&buf)
	s.Equal(logrus.InfoLevel, l.GetLevel())

	l.WithField("component", "test").Info("hello")
	s.Contains(buf.String(), `"component":"test"`)
	s.Contains(buf.String(), `"msg":"hello"`)
}

func (s *LoggerTestSuite) TestDebugOutsideRelease() {
	s.T().Setenv("GIN_MODE", "debug")
	s.Equal(logrus.DebugLevel, New(&bytes.Buffer{}).GetLevel())
}

func (s *LoggerTestSuite) TestWithLevel() {
	l, err := WithLevel(New(&bytes.Buffer{}), "warn")
	s.Require().NoError(err)
	s.Equal(logrus.WarnLevel, l.GetLevel())

	_, err = WithLevel(New(&bytes.Buffer{}), "loud")
	s.Require().Error(err)
}
