package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-geode/internal/bootstrap"
	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/converter"
	"github.com/napolitain/solver-geode/internal/loader"
	"github.com/napolitain/solver-geode/internal/metrics"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

var (
	configPath = pflag.StringP("config", "c", "", "Path to config file")
	port       = pflag.IntP("port", "p", 0, "The server port (overrides config)")
)

// server implements GeodeSolverServer
type server struct {
	UnimplementedGeodeSolverServer
	evaluator *solver.Evaluator
}

// blueprintsFromRequest reads either {"input": "<puzzle text>"} or {"blueprints": [...]}
func blueprintsFromRequest(req *structpb.Struct) ([]*models.Blueprint, error) {
	if input := req.GetFields()["input"].GetStringValue(); input != "" {
		return loader.ParseBlueprints(strings.NewReader(input))
	}
	return converter.StructToBlueprints(req)
}

func intOption(req *structpb.Struct, name string, fallback int) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return fallback, nil
	}
	n := v.GetNumberValue()
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum || n != float64(int(n)) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number", name)
	}
	return int(n), nil
}

// toStatus maps domain errors onto gRPC codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidBlueprint),
		errors.Is(err, models.ErrInvalidHorizon),
		errors.Is(err, loader.ErrMalformedBlueprint):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// Evaluate implements the Evaluate RPC
func (s *server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	blueprints, err := blueprintsFromRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}
	horizon, err := intOption(req, "horizon", s.evaluator.Settings().Horizon)
	if err != nil {
		return nil, err
	}

	log.Printf("Received Evaluate request: %d blueprints, horizon %d", len(blueprints), horizon)

	results, err := s.evaluator.EvaluateAll(ctx, blueprints, horizon)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := converter.ResultsToStruct(results)
	resp.Fields["quality_sum"] = structpb.NewNumberValue(float64(solver.QualitySum(results)))
	return resp, nil
}

// Score implements the Score RPC
func (s *server) Score(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	blueprints, err := blueprintsFromRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	mode := solver.ModeQuality
	if name := req.GetFields()["mode"].GetStringValue(); name != "" {
		if mode, err = solver.ParseScoreMode(name); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	log.Printf("Received Score request: %d blueprints, mode %s", len(blueprints), mode)

	score, err := s.evaluator.Score(ctx, blueprints, mode)
	if err != nil {
		return nil, toStatus(err)
	}

	log.Printf("Returning %s score %d", mode, score.Value)
	return converter.ScoreToStruct(score), nil
}

// rateLimitInterceptor rejects calls beyond the limiter's budget
func rateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "%s: rate limit exceeded", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("%s finished in %s (%s)", info.FullMethod, time.Since(start).Round(time.Millisecond), status.Code(err))
	return resp, err
}

func newGRPCServer(cfg *config.Config, evaluator *solver.Evaluator) *grpc.Server {
	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit.Requests), cfg.Server.RateLimit.Burst)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor, rateLimitInterceptor(limiter)))
	RegisterGeodeSolverServer(s, &server{evaluator: evaluator})
	return s
}

func main() {
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := solver.WithProgress(func(r geode.Result) {
		if cfg.Logging.Verbose {
			log.Printf("Blueprint: %d, max geodes: %d, level: %d", r.BlueprintID, r.Geodes, r.Quality())
		}
	})
	evaluator, cleanup, err := bootstrap.Evaluator(cfg, progress)
	if err != nil {
		log.Fatalf("Failed to set up solver: %v", err)
	}
	defer cleanup()

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr(), cfg.Metrics.Path); err != nil {
				log.Printf("Warning: %v", err)
			}
		}()
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s := newGRPCServer(cfg, evaluator)

	go func() {
		<-ctx.Done()
		log.Printf("Shutdown signal received, stopping server...")
		s.GracefulStop()
	}()

	log.Printf("gRPC server listening on port %d", cfg.Server.Port)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
