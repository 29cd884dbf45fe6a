package health

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ClientTLS holds the client side of the optional mTLS setup. An empty
// value dials in plaintext.
type ClientTLS struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

func (c ClientTLS) enabled() bool {
	return c.CAFile != "" || c.CertFile != ""
}

func Dial(addr string, tlsCfg ClientTLS, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if tlsCfg.enabled() {
		var err error
		if creds, err = loadClientCredentials(tlsCfg); err != nil {
			return nil, fmt.Errorf("load client credentials: %w", err)
		}
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)
	return grpc.NewClient(addr, opts...)
}

// Check asks the server for the status of service ("" is the whole server).
func Check(ctx context.Context, conn grpc.ClientConnInterface, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	res, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
	}
	return res.GetStatus(), nil
}

func loadClientCredentials(cfg ClientTLS) (credentials.TransportCredentials, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS13}

	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, err
		}

		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errBadCACert
		}
		tlsConfig.RootCAs = caPool
	}

	return credentials.NewTLS(tlsConfig), nil
}
