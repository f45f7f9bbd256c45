package service

import (
	"context"
	"encoding/json"
	"time"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/model"
	"pairprep-be/internal/pkg/logger"
	"pairprep-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains cleanup reports off the in-process bus and archives
// them so failed compensations are recoverable by an operator.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.CleanupReportMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal cleanup report", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"call_id":   payload.CallId,
		"operation": payload.Operation,
	}
	if payload.Report != nil && len(payload.Report.CompensationFailures()) > 0 {
		details["compensation_failures"] = payload.Report.CompensationFailures()
		cs.logger.Error("ConsumerService", "Cleanup left orphaned external resources", details)
	} else {
		cs.logger.Info("ConsumerService", "Archiving cleanup report", details)
	}

	reportJSON, err := json.Marshal(payload.Report)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to marshal report for archive", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	record := &model.CleanupReport{
		Id:        uuid.New(),
		CallId:    payload.CallId,
		Operation: payload.Operation,
		Report:    datatypes.JSON(reportJSON),
		CreatedAt: time.Now(),
	}
	if err := uow.CleanupReportRepository().Create(ctx, record); err != nil {
		cs.logger.Error("ConsumerService", "Failed to archive cleanup report", map[string]interface{}{
			"call_id": payload.CallId,
			"error":   err.Error(),
		})
		// Archive is a convenience, the report is already in the logs.
		msg.Ack()
		return
	}

	msg.Ack()
}
