package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Handler harus return nil hanya jika proses sukses & boleh commit offset.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers}
}

// workerFor memetakan key yang sama ke worker yang sama, jadi urutan per key terjaga.
func workerFor(key []byte, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64(key) % uint64(n))
}

// pool menjalankan satu goroutine per worker, masing-masing dengan antrian sendiri.
type pool struct {
	jobs []chan kafka.Message
	errs chan error
	wg   sync.WaitGroup
}

func newPool(ctx context.Context, workers, buf int, h Handler, commit func(context.Context, kafka.Message) error) *pool {
	p := &pool{
		jobs: make([]chan kafka.Message, workers),
		errs: make(chan error, workers),
	}
	for i := range p.jobs {
		ch := make(chan kafka.Message, buf)
		p.jobs[i] = ch
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for m := range ch {
				if err := h(ctx, m); err != nil {
					p.report(err)
					continue
				}
				if err := commit(ctx, m); err != nil {
					p.report(err)
				}
			}
		}()
	}
	return p
}

func (p *pool) report(err error) {
	select {
	case p.errs <- err:
	default:
		log.Error().Err(err).Msg("worker error")
	}
}

func (p *pool) submit(ctx context.Context, m kafka.Message) bool {
	select {
	case p.jobs[workerFor(m.Key, len(p.jobs))] <- m:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *pool) close() {
	for _, ch := range p.jobs {
		close(ch)
	}
	p.wg.Wait()
}

func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	p := newPool(ctx, c.workers, 1024/c.workers+1, h, func(ctx context.Context, m kafka.Message) error {
		return c.r.CommitMessages(ctx, m)
	})
	defer p.close()

	// dispatcher loop
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if !p.submit(ctx, m) {
			return nil
		}

		// non-blocking drain error agar tidak deadlock
		select {
		case e := <-p.errs:
			log.Error().Err(e).Msg("worker error")
			time.Sleep(200 * time.Millisecond)
		default:
		}
	}
}
