package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Job is one bet to record. Jobs sharing a Key are sent in enqueue order;
// an empty Key spreads jobs by line number.
type Job struct {
	Line   int
	Key    string
	Record domain.BetRecord
}

// Result reports the outcome of a Job.
type Result struct {
	Job Job
	Err error
}

// Dispatcher fans bets out to a fixed set of workers, sharding on Job.Key so
// bets of the same session keep their order.
type Dispatcher struct {
	workers []chan Job
	results chan Result
	creator ports.BetCreator
	log     zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, creator ports.BetCreator, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		results: make(chan Result, channelBuffer),
		creator: creator,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches the workers. They exit when ctx is cancelled or Close is called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands job to its shard, blocking while the shard is full.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	select {
	case d.workers[d.shardIndex(job)] <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results streams one Result per processed job. It is closed once Close has
// been called and every worker has finished. The caller must drain it.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Close stops accepting jobs and waits for in-flight ones. Enqueue must not be
// called after Close.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		for _, ch := range d.workers {
			close(ch)
		}
		d.wg.Wait()
		close(d.results)
	})
}

// Workers returns the shard count.
func (d *Dispatcher) Workers() int { return len(d.workers) }

func (d *Dispatcher) shardIndex(job Job) int {
	key := job.Key
	if key == "" {
		key = strconv.Itoa(job.Line)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			r := job.Record
			_, err := d.creator.CreateBet(ctx, r.BetAmount, r.Result, r.Payout)
			if err != nil {
				d.log.Error().Err(err).
					Int("line", job.Line).
					Int("worker_id", id).
					Msg("bet import failed")
			}
			d.results <- Result{Job: job, Err: err}
		}
	}
}
