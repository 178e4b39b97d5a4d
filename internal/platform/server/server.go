package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/hrcore/internal/adapters/grpc/directoryv1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server は DirectoryService を公開する gRPC サーバーです。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
}

// New は DirectoryService とヘルスチェックを登録したサーバーを構築します。
// ロギングインターセプタは opts より先に適用されます。
func New(listenAddr string, directory directoryv1.DirectoryServer, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)
	directoryv1.RegisterDirectoryServer(srv, directory)

	hs := health.NewServer()
	hs.SetServingStatus(directoryv1.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		logger:     logger,
	}
}

// Run は listenAddr で待ち受け、ctx がキャンセルされるまでリクエストを処理します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis でリクエストを処理します。ctx のキャンセルで GracefulStop します。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.GracefulStop()
		case <-stopped:
		}
	}()

	s.health.SetServingStatus(directoryv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// GracefulStop はヘルスチェックを停止中にしてから処理中の RPC の完了を待って停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.logger.Info("gRPC server stopped")
}
