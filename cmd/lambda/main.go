package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/napolitain/solver-geode/internal/bootstrap"
	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/converter"
	"github.com/napolitain/solver-geode/internal/loader"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// scoreRequest carries either puzzle text or a JSON blueprint list
type scoreRequest struct {
	Mode       string          `json:"mode"`
	Input      string          `json:"input"`
	Blueprints json.RawMessage `json:"blueprints"`
}

type handler struct {
	evaluator *solver.Evaluator
}

func (h *handler) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req scoreRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	if mode := event.QueryStringParameters["mode"]; mode != "" {
		req.Mode = mode
	}

	var (
		blueprints []*models.Blueprint
		err        error
	)
	switch {
	case req.Input != "":
		blueprints, err = loader.ParseBlueprints(strings.NewReader(req.Input))
	case len(req.Blueprints) > 0:
		blueprints, err = loader.ParseBlueprintsJSON([]byte(body))
	default:
		return errResp(http.StatusBadRequest, "missing input or blueprints field")
	}
	if err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}

	mode := solver.ModeQuality
	if req.Mode != "" {
		if mode, err = solver.ParseScoreMode(req.Mode); err != nil {
			return errResp(http.StatusBadRequest, err.Error())
		}
	}

	score, err := h.evaluator.Score(ctx, blueprints, mode)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return errResp(http.StatusGatewayTimeout, err.Error())
		case errors.Is(err, models.ErrInvalidHorizon), errors.Is(err, models.ErrInvalidBlueprint):
			return errResp(http.StatusBadRequest, err.Error())
		default:
			return errResp(http.StatusInternalServerError, err.Error())
		}
	}

	respJSON, err := protojson.Marshal(converter.ScoreToStruct(score))
	if err != nil {
		return errResp(http.StatusInternalServerError, err.Error())
	}
	log.Printf("%s score %d over %d blueprints", mode, score.Value, len(blueprints))
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	cfg := config.LoadConfigOrDefault("")

	evaluator, cleanup, err := bootstrap.Evaluator(cfg)
	if err != nil {
		log.Fatalf("Failed to set up solver: %v", err)
	}
	defer cleanup()

	h := &handler{evaluator: evaluator}
	lambda.Start(h.handle)
}
