package main

import (
	"context"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/viant/mcp-protocol/authorization"
	oauthmeta "github.com/viant/mcp-protocol/oauth2/meta"
	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/scy"
	"github.com/viant/scy/auth/flow"
	"github.com/viant/scy/cred"
	_ "github.com/viant/scy/kms/blowfish"

	ghmcp "github.com/sentinelhq/sentinel/github/mcp"
	ghservice "github.com/sentinelhq/sentinel/github/service"
	mcpsrv "github.com/viant/mcp/server"
	serverauth "github.com/viant/mcp/server/auth"
)

// Options defines CLI flags for the Sentinel MCP server.
type Options struct {
	HTTPAddr      string `short:"a" long:"addr" description:"HTTP listen address (empty disables HTTP)"`
	Domain        string `long:"domain" description:"GitHub host (default github.com)"`
	Token         string `short:"t" long:"token" env:"SENTINEL_GITHUB_TOKEN" description:"GitHub bearer token"`
	SecretsBase   string `long:"secretsBase" description:"AFS base URL for persisting tokens (e.g., mem://localhost/sentinel)"`
	MinIntervalMs int    `long:"minIntervalMs" description:"Minimum spacing between GitHub calls in milliseconds (default 1000)"`
	MaxAttempts   int    `long:"maxAttempts" description:"Per-call attempt budget including retries (default 3)"`
	TreeTTL       int    `long:"treeTtlSeconds" description:"File-tree cache TTL in seconds (default 3600)"`
	Oauth2Config  string `short:"o" long:"oauth2config" description:"Path to JSON OAuth2 configuration file (scy EncodedResource)"`
	UseIdToken    bool   `short:"i" long:"use-id-token" description:"Use ID token (instead of access token) for identity scoping"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		os.Exit(2)
	}
	if opts.SecretsBase == "" {
		opts.SecretsBase = "mem://localhost/sentinel"
	}

	svc := ghservice.NewService(&ghservice.Config{
		Domain:         opts.Domain,
		Token:          opts.Token,
		SecretsBase:    opts.SecretsBase,
		MinIntervalMs:  opts.MinIntervalMs,
		MaxAttempts:    opts.MaxAttempts,
		TreeTTLSeconds: opts.TreeTTL,
	})

	options := []mcpsrv.Option{
		mcpsrv.WithImplementation(schema.Implementation{Name: "sentinel-mcp", Version: "0.1.0"}),
		mcpsrv.WithNewHandler(ghmcp.NewHandler(svc)),
		mcpsrv.WithEndpointAddress(opts.HTTPAddr),
		mcpsrv.WithRootRedirect(true),
		mcpsrv.WithStreamableURI("/mcp"),
		mcpsrv.WithCustomHTTPHandler("/github/auth/token", svc.TokenIngestHandler()),
		mcpsrv.WithCustomHTTPHandler("/github/auth/check", svc.TokenCheckHandler()),
		mcpsrv.WithCustomHTTPHandler("/github/auth/clear", svc.TokenClearHandler()),
	}

	// Optional: enable server-level OAuth2 via config
	if opts.Oauth2Config != "" {
		res := scy.EncodedResource(opts.Oauth2Config).Decode(context.Background(), cred.Oauth2Config{})
		sec, err := scy.New().Load(context.Background(), res)
		if err != nil {
			log.Fatalf("failed to load oauth2config: %v", err)
		}
		oauth2Config, ok := sec.Target.(*cred.Oauth2Config)
		if !ok {
			log.Fatalf("invalid oauth2config secret type")
		}
		authPolicy := &authorization.Policy{
			Global: &authorization.Authorization{UseIdToken: opts.UseIdToken, ProtectedResourceMetadata: &oauthmeta.ProtectedResourceMetadata{
				AuthorizationServers: []string{oauth2Config.Config.Endpoint.AuthURL},
			}},
			ExcludeURI: "/sse",
		}
		bff := &serverauth.BackendForFrontend{Client: &oauth2Config.Config, AuthorizationExchangeHeader: flow.AuthorizationExchangeHeader}
		authSvc, err := serverauth.New(&serverauth.Config{BackendForFrontend: bff, Policy: authPolicy})
		if err != nil {
			log.Fatalf("failed to init auth service: %v", err)
		}
		options = append(options,
			mcpsrv.WithAuthorizer(authSvc.Middleware),
			mcpsrv.WithProtectedResourcesHandler(authSvc.ProtectedResourcesHandler),
		)
	}

	server, err := mcpsrv.New(options...)
	if err != nil {
		log.Fatal(err)
	}
	if opts.HTTPAddr != "" {
		server.UseStreamableHTTP(true)
		if err := server.HTTP(context.Background(), opts.HTTPAddr).ListenAndServe(); err != nil {
			log.Fatal(err)
		}
	}
}
