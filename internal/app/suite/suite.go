package suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"auth-service/internal/app"
	"auth-service/internal/config"
	"auth-service/internal/lib/logger/handlers/slogdiscard"
	userv1 "auth-service/pkg/userv1"
)

const ConfigPath = "../../config/test.yaml"

// Suite runs the whole application in process: the HTTP API on an
// httptest server and the gRPC facade on an in-memory listener.
type Suite struct {
	*testing.T
	Cfg        *config.Config
	App        *app.App
	HTTP       *httptest.Server
	UserClient userv1.UserServiceClient
}

// New starts the application with the test config.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	return NewWithConfig(t, config.MustLoadPath(ConfigPath))
}

func NewWithConfig(t *testing.T, cfg *config.Config) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	application := app.New(ctx, slogdiscard.NewDiscardLogger(), cfg)

	srv := httptest.NewServer(application.HTTPSrv.Handler())

	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = application.GRPCSrv.Serve(lis) }()

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial grpc: %v", err)
	}

	t.Cleanup(func() {
		t.Helper()
		cancel()
		_ = cc.Close()
		srv.Close()
		application.GRPCSrv.Stop()
		application.Stop(context.Background())
	})

	return ctx, &Suite{
		T:          t,
		Cfg:        cfg,
		App:        application,
		HTTP:       srv,
		UserClient: userv1.NewUserServiceClient(cc),
	}
}

// Post sends body as JSON and decodes the JSON reply. Extra arguments are
// header name/value pairs.
func (s *Suite) Post(path string, body any, header ...string) (int, map[string]any) {
	s.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(http.MethodPost, s.HTTP.URL+path, &buf)
	if err != nil {
		s.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	res, err := s.HTTP.Client().Do(req)
	if err != nil {
		s.Fatalf("request %s failed: %v", path, err)
	}
	defer res.Body.Close()

	out := map[string]any{}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		s.Fatalf("failed to decode %s response: %v", path, err)
	}

	return res.StatusCode, out
}

// Get fetches path and decodes the JSON reply.
func (s *Suite) Get(path string) (int, map[string]any) {
	s.Helper()

	res, err := s.HTTP.Client().Get(s.HTTP.URL + path)
	if err != nil {
		s.Fatalf("request %s failed: %v", path, err)
	}
	defer res.Body.Close()

	out := map[string]any{}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		s.Fatalf("failed to decode %s response: %v", path, err)
	}

	return res.StatusCode, out
}
