package main

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/converter"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

const exampleInput = `Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian.
Blueprint 2: Each ore robot costs 2 ore. Each clay robot costs 3 ore. Each obsidian robot costs 3 ore and 8 clay. Each geode robot costs 3 ore and 12 obsidian.`

// testSettings keeps products at 24 steps so requests finish quickly
func testSettings() solver.Settings {
	settings := solver.DefaultSettings()
	settings.ExtendedHorizon = 24
	return settings
}

// testServer creates a server instance for testing without starting the gRPC listener
func testServer(t *testing.T) *server {
	t.Helper()
	return &server{evaluator: solver.NewEvaluator(testSettings())}
}

func textRequest(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	fields["input"] = exampleInput
	req, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("NewStruct failed: %v", err)
	}
	return req
}

func resultGeodes(t *testing.T, resp *structpb.Struct) []int {
	t.Helper()
	var geodes []int
	for _, v := range resp.Fields["results"].GetListValue().GetValues() {
		geodes = append(geodes, int(v.GetStructValue().Fields["geodes"].GetNumberValue()))
	}
	return geodes
}

func TestEvaluateTextInput(t *testing.T) {
	srv := testServer(t)

	resp, err := srv.Evaluate(context.Background(), textRequest(t, map[string]any{}))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	geodes := resultGeodes(t, resp)
	if len(geodes) != 2 || geodes[0] != 9 || geodes[1] != 12 {
		t.Errorf("geodes = %v, want [9 12]", geodes)
	}
	if got := resp.Fields["quality_sum"].GetNumberValue(); got != 33 {
		t.Errorf("quality_sum = %v, want 33", got)
	}
}

func TestEvaluateStructInput(t *testing.T) {
	srv := testServer(t)
	req := converter.BlueprintsToStruct([]*models.Blueprint{models.MustStandardBlueprint(2, 2, 3, 3, 8, 3, 12)})
	req.Fields["horizon"] = structpb.NewNumberValue(24)

	resp, err := srv.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if geodes := resultGeodes(t, resp); len(geodes) != 1 || geodes[0] != 12 {
		t.Errorf("geodes = %v, want [12]", geodes)
	}
}

func TestScoreModes(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		mode string
		want float64
	}{
		{"", 33},
		{"quality", 33},
		{"product", 108},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			fields := map[string]any{}
			if tt.mode != "" {
				fields["mode"] = tt.mode
			}
			resp, err := srv.Score(context.Background(), textRequest(t, fields))
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if got := resp.Fields["value"].GetNumberValue(); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvalidRequests(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"malformed text", func() error {
			req, _ := structpb.NewStruct(map[string]any{"input": "not a blueprint"})
			_, err := srv.Evaluate(ctx, req)
			return err
		}},
		{"missing blueprints", func() error {
			_, err := srv.Evaluate(ctx, &structpb.Struct{})
			return err
		}},
		{"negative horizon", func() error {
			_, err := srv.Evaluate(ctx, textRequest(t, map[string]any{"horizon": -3}))
			return err
		}},
		{"oversized horizon", func() error {
			_, err := srv.Evaluate(ctx, textRequest(t, map[string]any{"horizon": 1 << 40}))
			return err
		}},
		{"fractional horizon", func() error {
			_, err := srv.Evaluate(ctx, textRequest(t, map[string]any{"horizon": 2.5}))
			return err
		}},
		{"unknown mode", func() error {
			_, err := srv.Score(ctx, textRequest(t, map[string]any{"mode": "median"}))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("code = %v (%v), want InvalidArgument", status.Code(err), err)
			}
		})
	}
}

func TestCancelledRequest(t *testing.T) {
	settings := testSettings()
	settings.Dominance = geode.DominanceOff
	srv := &server{evaluator: solver.NewEvaluator(settings)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := srv.Score(ctx, textRequest(t, map[string]any{"mode": "product"}))
	if status.Code(err) != codes.Canceled {
		t.Errorf("code = %v (%v), want Canceled", status.Code(err), err)
	}
}

// dialBufconn serves the full interceptor chain over an in-memory listener
func dialBufconn(t *testing.T, cfg *config.Config) *geodeSolverClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := newGRPCServer(cfg, solver.NewEvaluator(testSettings()))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return newGeodeSolverClient(conn)
}

func TestGRPCRoundTrip(t *testing.T) {
	client := dialBufconn(t, config.Default())

	resp, err := client.Score(context.Background(), textRequest(t, map[string]any{"mode": "quality"}))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if got := resp.Fields["value"].GetNumberValue(); got != 33 {
		t.Errorf("value = %v, want 33", got)
	}
	if got := resp.Fields["mode"].GetStringValue(); got != "quality" {
		t.Errorf("mode = %q, want quality", got)
	}

	_, err = client.Evaluate(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestGRPCRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit.Requests = 1
	cfg.Server.RateLimit.Burst = 1
	client := dialBufconn(t, cfg)

	req := textRequest(t, map[string]any{"horizon": 5})
	if _, err := client.Evaluate(context.Background(), req); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	_, err := client.Evaluate(context.Background(), req)
	if status.Code(err) != codes.ResourceExhausted {
		t.Errorf("code = %v, want ResourceExhausted", status.Code(err))
	}
}

func TestUnimplementedServer(t *testing.T) {
	var srv UnimplementedGeodeSolverServer
	if _, err := srv.Score(context.Background(), &structpb.Struct{}); status.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", status.Code(err))
	}
}
