// Command mcpgrpcsvc runs the gRPC MCP server: config load, registry/servicer
// construction, interceptor wiring, listen, serve, and signal-aware shutdown
// — the overall shape ported from mcpsvr/main.go's bootstrap sequence.
package main

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/JeffreyRichter/mcpgrpc/config"
	"github.com/JeffreyRichter/mcpgrpc/internal/aids"
	"github.com/JeffreyRichter/mcpgrpc/internal/logging"
	"github.com/JeffreyRichter/mcpgrpc/internal/shutdown"
	"github.com/JeffreyRichter/mcpgrpc/internal/versiongate"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
	"github.com/JeffreyRichter/mcpgrpc/server"
	"github.com/JeffreyRichter/mcpgrpc/server/memregistry"
)

func main() {
	c := config.Get()
	loggers := logging.New()

	creds := insecure.NewCredentials()
	if c.TLSCertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			loggers.Err.Error("failed to load TLS key pair", "err", err)
			os.Exit(1)
		}
		creds = credentials.NewTLS(&tls.Config{Certificates: []tls.Certificate{cert}})
	}

	svcOpts := []grpc.ServerOption{
		grpc.Creds(creds),
		grpc.ForceServerCodec(mcppb.Codec{}),
		grpc.ChainUnaryInterceptor(versiongate.UnaryServerInterceptor(), loggers.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(versiongate.StreamServerInterceptor(), loggers.StreamServerInterceptor()),
	}
	grpcSrv := grpc.NewServer(svcOpts...)

	svc := server.NewServicer(memregistry.New())
	if c.CatalogTTL > 0 {
		svc.SetCatalogTTL(c.CatalogTTL)
	}
	mcppb.RegisterMcpServer(grpcSrv, svc)

	lis := aids.Must(net.Listen("tcp", c.ListenAddr))

	mgr := shutdown.New(shutdown.Config{
		Logger:            loggers.Err,
		HealthProbeDelay:  c.HealthProbeDelay,
		CancellationDelay: c.CancellationDelay,
	})
	go mgr.Run(grpcSrv)

	startMsg := fmt.Sprintf("Listening on %s", lis.Addr().String())
	if c.Local {
		startMsg = fmt.Sprintf(`{"addr":%q}`, lis.Addr().String())
	}
	fmt.Println(startMsg)

	if err := grpcSrv.Serve(lis); err != nil {
		loggers.Err.Error("server exited", "err", err)
		os.Exit(1)
	}
}
