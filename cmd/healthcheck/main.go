// Command healthcheck probes the forum's gRPC health endpoint and exits
// non-zero unless the server reports SERVING. It is meant for container
// health checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/taekwondodev/go-qa-forum/internal/health"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC health server address")
	service := flag.String("service", "", "service name to check, empty for the whole server")
	timeout := flag.Duration("timeout", 3*time.Second, "probe timeout")
	cert := flag.String("cert", "", "client certificate file")
	key := flag.String("key", "", "client key file")
	ca := flag.String("ca", "", "CA certificate file")
	flag.Parse()

	conn, err := health.Dial(*addr, health.ClientTLS{CertFile: *cert, KeyFile: *key, CAFile: *ca})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	status, err := health.Check(ctx, conn, *service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %v\n", err)
		os.Exit(2)
	}

	fmt.Println(status.String())
	if status != grpc_health_v1.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}
