package handler

import (
	"context"
	"errors"

	"github.com/albatrocity/radio-room-server-sub000/pkg/common"
	"github.com/albatrocity/radio-room-server-sub000/pkg/pipeline"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// TriggerService serves room events and rule administration over gRPC.
type TriggerService struct {
	pipelineManager *pipeline.Manager
}

// NewTriggerService creates a new trigger service
func NewTriggerService(pipelineManager *pipeline.Manager) *TriggerService {
	return &TriggerService{
		pipelineManager: pipelineManager,
	}
}

// EvaluateReaction handles a reaction added to or removed from a track or message.
func (s *TriggerService) EvaluateReaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TriggerService.EvaluateReaction")
	defer scope.Finish()

	var req ReactionRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.RoomID == "" {
		return nil, status.Error(codes.InvalidArgument, "roomId is required")
	}
	scope.WithRoom(req.RoomID)

	result, err := s.pipelineManager.ProcessReactionEvent(scope.Ctx, req.RoomID, req.State, req.Event)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("pipeline processing failed: %v", err)
		return nil, toStatus(err)
	}

	scope.SetAttributes("fired", result.Fired())
	scope.Log.Infof("processed reaction event: %d firings", len(result.Intents))
	return encode(newEvaluateResponse(req.RoomID, result))
}

// EvaluateMessage handles a new chat message.
func (s *TriggerService) EvaluateMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TriggerService.EvaluateMessage")
	defer scope.Finish()

	var req MessageRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.RoomID == "" {
		return nil, status.Error(codes.InvalidArgument, "roomId is required")
	}
	scope.WithRoom(req.RoomID)

	result, err := s.pipelineManager.ProcessMessageEvent(scope.Ctx, req.RoomID, req.State, req.Event)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("pipeline processing failed: %v", err)
		return nil, toStatus(err)
	}

	scope.SetAttributes("fired", result.Fired())
	scope.Log.Infof("processed message event: %d firings", len(result.Intents))
	return encode(newEvaluateResponse(req.RoomID, result))
}

// GetRuleSet returns a room's compiled trigger rules.
func (s *TriggerService) GetRuleSet(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TriggerService.GetRuleSet")
	defer scope.Finish()

	var req RoomRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scope.WithRoom(req.RoomID)

	set, err := s.pipelineManager.GetRuleSet(scope.Ctx, req.RoomID)
	if err != nil {
		scope.TraceError(err)
		return nil, toStatus(err)
	}

	return encode(RuleSetResponse{RoomID: req.RoomID, Rules: set})
}

// SetRuleSet replaces a room's trigger rules. Invalid rules are left out
// and listed in the response.
func (s *TriggerService) SetRuleSet(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TriggerService.SetRuleSet")
	defer scope.Finish()

	var req SetRuleSetRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scope.WithRoom(req.RoomID)

	compiled, invalid, err := s.pipelineManager.SetRuleSet(scope.Ctx, req.RoomID, req.Rules)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to set rule set: %v", err)
		return nil, toStatus(err)
	}

	if len(invalid) > 0 {
		scope.Log.Warnf("rule set stored with %d invalid rules left out", len(invalid))
	}
	return encode(RuleSetResponse{
		RoomID:  req.RoomID,
		Rules:   compiled,
		Invalid: errorStrings(invalid),
	})
}

// PruneHistory clears a room's firing history, e.g. after the playlist or
// chat was cleared.
func (s *TriggerService) PruneHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TriggerService.PruneHistory")
	defer scope.Finish()

	var req PruneRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scope.WithRoom(req.RoomID)

	removed, err := s.pipelineManager.PruneScope(scope.Ctx, req.RoomID, req.Scope)
	if err != nil {
		scope.TraceError(err)
		return nil, toStatus(err)
	}

	return encode(PruneResponse{RoomID: req.RoomID, Removed: removed})
}

// ListFirings returns a room's firing history, oldest first.
func (s *TriggerService) ListFirings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TriggerService.ListFirings")
	defer scope.Finish()

	var req RoomRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scope.WithRoom(req.RoomID)

	records, err := s.pipelineManager.History(scope.Ctx, req.RoomID)
	if err != nil {
		scope.TraceError(err)
		return nil, toStatus(err)
	}

	return encode(FiringsResponse{RoomID: req.RoomID, Firings: records})
}

// toStatus maps pipeline errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrInvalidEvent),
		errors.Is(err, pipeline.ErrEmptyRoomID),
		errors.Is(err, pipeline.ErrUnknownPruneScope):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		logrus.Debugf("mapping internal error to gRPC status: %v", err)
		return status.Error(codes.Internal, err.Error())
	}
}
