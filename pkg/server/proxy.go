package server

import (
	"fmt"

	"github.com/rantcrypto/cmcgate/pkg/config"
	handlers "github.com/rantcrypto/cmcgate/pkg/handlers/http"
	"github.com/rantcrypto/cmcgate/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	ProxyServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	ProxyServer struct {
		*BaseServer
	}
)

func NewProxyServer(di ProxyServerDI) (*ProxyServer, error) {
	base := NewBaseServer(di.Config, di.Logger, handlers.NewErrorHandler(di.Logger))
	if err := base.WithRouters(di.Routers...); err != nil {
		return nil, err
	}
	return &ProxyServer{BaseServer: base}, nil
}

func (s *ProxyServer) Run() error {
	s.Logger.WithField("addr", s.Config.Server.Port).Info("starting proxy server")
	return s.Router.Listen(fmt.Sprintf(":%d", s.Config.Server.Port))
}
