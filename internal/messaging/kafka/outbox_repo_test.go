package kafka_test

import (
	"testing"

	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:      uuid.NewString(),
		Topic:   "hr.report.leave_summary.requested.v1",
		Payload: []byte(`{"report_id":"x"}`),
		Status:  kafka.OutboxStatusPending,
	}
}

func TestValidateOutboxEvent(t *testing.T) {
	assert.NoError(t, kafka.ValidateOutboxEvent(validEvent()))

	missingID := validEvent()
	missingID.ID = ""
	assert.EqualError(t, kafka.ValidateOutboxEvent(missingID), "outbox id is required")

	missingTopic := validEvent()
	missingTopic.Topic = ""
	assert.EqualError(t, kafka.ValidateOutboxEvent(missingTopic), "outbox topic is required")

	missingPayload := validEvent()
	missingPayload.Payload = nil
	assert.EqualError(t, kafka.ValidateOutboxEvent(missingPayload), "outbox payload is required")

	badStatus := validEvent()
	badStatus.Status = "queued"
	assert.EqualError(t, kafka.ValidateOutboxEvent(badStatus), "invalid outbox status: queued")
}
