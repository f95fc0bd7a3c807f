package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/guidance"
	"github.com/ironsheep/faraway-mcp/internal/stabilizer"
)

// Name identifies this MCP server to clients.
const Name = "faraway-mcp"

// Options tune a Server. Zero values are usable.
type Options struct {
	// Version is reported to clients during the handshake.
	Version string

	// Locale is used by faraway_query when the caller sends none.
	Locale string

	Logger *zap.Logger
}

// Server hosts the MCP tools over one catalog and one stabilization window.
type Server struct {
	mcpServer *mcp.Server
	cat       *catalog.Catalog
	window    *stabilizer.Window
	guide     *guidance.Guide
	locale    string
	log       *zap.Logger
}

// New creates a server with every tool registered.
func New(cat *catalog.Catalog, window *stabilizer.Window, guide *guidance.Guide, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Locale == "" {
		opts.Locale = guidance.BaseLocale
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: Name, Version: opts.Version}, nil),
		cat:       cat,
		window:    window,
		guide:     guide,
		locale:    opts.Locale,
		log:       opts.Logger,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, pushDetectionsTool(), s.handlePushDetections)
	mcp.AddTool(s.mcpServer, queryTool(), s.handleQuery)
	mcp.AddTool(s.mcpServer, resetTool(), s.handleReset)
	mcp.AddTool(s.mcpServer, statusTool(), s.handleStatus)
	mcp.AddTool(s.mcpServer, scoreLayoutTool(), s.handleScoreLayout)
	mcp.AddTool(s.mcpServer, cardTool(), s.handleCard)
	mcp.AddTool(s.mcpServer, renderLayoutTool(), s.handleRenderLayout)
}

// Serve runs the server over stdio until ctx ends or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	s.log.Info("serving", zap.String("server", Name), zap.Int("regions", s.cat.RegionCount()), zap.Int("sanctuaries", s.cat.SanctuaryCount()))
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
