package audit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

const QueueName = "audit_queue"

// Recorder 把审计事件发布到 audit_queue，由 audit worker 消费后落库。
// 发布失败如何处置由调用方决定：求解和钉选路径会把错误向上抛，预测路径只记日志
type Recorder struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewRecorder(cfg *config.Config, channel *amqp.Channel) *Recorder {
	return &Recorder{
		cfg:     cfg,
		channel: channel,
	}
}

func (r *Recorder) Record(l *domain.AuditLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}

	body, err := json.Marshal(l)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
