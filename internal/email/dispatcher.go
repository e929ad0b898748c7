package email

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobboard_backend/internal/logger"
)

var ErrQueueFull = errors.New("email queue is full")

// Dispatcher - асинхронная очередь писем. Enqueue никогда не блокирует
// вызывающего: при переполнении письмо отбрасывается с ошибкой ErrQueueFull.
type Dispatcher struct {
	sender      Sender
	queue       chan *Email
	maxAttempts int
	backoff     time.Duration
	wg          sync.WaitGroup
}

func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Dispatcher{
		sender:      sender,
		queue:       make(chan *Email, queueSize),
		maxAttempts: 3,
		backoff:     2 * time.Second,
	}
}

func (d *Dispatcher) Enqueue(email *Email) error {
	select {
	case d.queue <- email:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start запускает обработчик очереди; он завершается при отмене ctx
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				logger.WorkerLog("email_dispatcher", "stop", nil, "pending", len(d.queue))
				return
			case email := <-d.queue:
				d.deliver(ctx, email)
			}
		}
	}()
}

// Wait дожидается остановки обработчика
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, email *Email) {
	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = d.sender.Send(sendCtx, email)
		cancel()
		if err == nil {
			return
		}
		if attempt == d.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.backoff * time.Duration(attempt)):
		}
	}
	logger.WorkerLog("email_dispatcher", "send", err, "to", email.To, "subject", email.Subject)
}
