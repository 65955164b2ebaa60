package mcp

import (
	"context"

	ghservice "github.com/sentinelhq/sentinel/github/service"
	"github.com/viant/jsonrpc/transport"
	protoclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	protoserver "github.com/viant/mcp-protocol/server"
)

type Handler struct {
	*protoserver.DefaultHandler
	service *ghservice.Service
}

// NewHandler builds the per-session MCP handler with every Sentinel GitHub
// tool registered.
func NewHandler(service *ghservice.Service) protoserver.NewHandler {
	return func(_ context.Context, notifier transport.Notifier, logger logger.Logger, clientOperation protoclient.Operations) (protoserver.Handler, error) {
		base := protoserver.NewDefaultHandler(notifier, logger, clientOperation)
		ret := &Handler{DefaultHandler: base, service: service}
		if err := registerTools(base, ret); err != nil {
			return nil, err
		}
		return ret, nil
	}
}
