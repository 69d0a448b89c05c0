package handler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/item-inventory/internal/adapter/handler/pb"
	"github.com/rl1809/item-inventory/internal/core/domain"
	"github.com/rl1809/item-inventory/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedItemServiceServer
	itemService *service.ItemService
	tracer      trace.Tracer
}

func NewGRPCHandler(itemService *service.ItemService) *GRPCHandler {
	return &GRPCHandler{
		itemService: itemService,
		tracer:      otel.Tracer("item-grpc"),
	}
}

func (h *GRPCHandler) GetItemById(ctx context.Context, req *pb.GetItemRequest) (*pb.Item, error) {
	ctx, span := h.tracer.Start(ctx, "GetItemById", trace.WithAttributes(attribute.Int64("item.id", req.GetId())))
	defer span.End()

	if req.GetId() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "invalid item id")
	}

	item, err := h.itemService.GetByID(ctx, req.GetId())
	if err != nil {
		return nil, grpcError(err)
	}

	return &pb.Item{
		Id:       item.ID,
		Name:     item.Name,
		Type:     item.Type,
		Rarity:   item.Rarity.Label(),
		Quantity: int64(item.Quantity),
	}, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "item not found")
	case errors.Is(err, domain.ErrInvalidValue):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "item store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// UnaryLoggingInterceptor logs every unary call with its status code.
func UnaryLoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	log = log.Named("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("rpc",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
