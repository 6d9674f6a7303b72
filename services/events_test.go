package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherSendsJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, newProducerConfig())
	publisher := newKafkaPublisherWithProducer(producer, "garage.orders")
	defer publisher.Close()

	occurred := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got OrderEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != EventOrderCompleted || got.OrderID != 7 || got.Token != "abc" || !got.OccurredAt.Equal(occurred) {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	err := publisher.Publish(context.Background(), OrderEvent{
		Type:       EventOrderCompleted,
		OrderID:    7,
		Token:      "abc",
		Status:     "completed",
		OccurredAt: occurred,
	})
	assert.NoError(t, err)
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, newProducerConfig())
	publisher := newKafkaPublisherWithProducer(producer, "garage.orders")
	defer publisher.Close()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := publisher.Publish(context.Background(), OrderEvent{Type: EventOrderCreated, OrderID: 1, Token: "abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestProducerConfig(t *testing.T) {
	cfg := newProducerConfig()

	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.NoError(t, cfg.Validate())
}
