package activity

import (
	"log"
	"sync"
	"time"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
)

// Recorder accepts ledger events on a bounded queue and writes them to the
// database in batches. Recording never blocks a request: when the queue is
// full the event is dropped and counted.
type Recorder struct {
	db        *database.GormDB
	queue     chan models.Activity
	stopChan  chan struct{}
	doneChan  chan struct{}
	isRunning bool
	mu        sync.Mutex

	flushInterval time.Duration
	batchSize     int

	recorded uint64
	dropped  uint64
}

// NewRecorder creates a recorder with the given queue capacity
func NewRecorder(db *database.GormDB, queueSize, batchSize int, flushInterval time.Duration) *Recorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &Recorder{
		db:            db,
		queue:         make(chan models.Activity, queueSize),
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
		flushInterval: flushInterval,
		batchSize:     batchSize,
	}
}

// Start starts the background flush loop
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		log.Println("ActivityRecorder: Already running")
		return
	}
	r.isRunning = true
	log.Printf("ActivityRecorder: Started (queue=%d, batch=%d, flush=%v)",
		cap(r.queue), r.batchSize, r.flushInterval)

	go r.run()
}

// Stop drains the queue and stops the flush loop
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = false
	r.mu.Unlock()

	log.Println("ActivityRecorder: Stopping...")
	close(r.stopChan)
	<-r.doneChan
}

// Enqueue submits one ledger row. Never blocks; returns false when the
// queue is full and the event was dropped.
func (r *Recorder) Enqueue(a models.Activity) bool {
	select {
	case r.queue <- a:
		return true
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()
		log.Printf("ActivityRecorder: Queue full, dropped event type=%s (total dropped=%d)", a.Type, dropped)
		return false
	}
}

// run is the main flush loop
func (r *Recorder) run() {
	defer close(r.doneChan)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	batch := make([]models.Activity, 0, r.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.db.InsertActivities(batch); err != nil {
			log.Printf("ActivityRecorder: Failed to write batch of %d: %v", len(batch), err)
		} else {
			r.mu.Lock()
			r.recorded += uint64(len(batch))
			r.mu.Unlock()
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-r.stopChan:
			// Drain whatever is still queued before exiting
			for {
				select {
				case a := <-r.queue:
					batch = append(batch, a)
					if len(batch) >= r.batchSize {
						flush()
					}
				default:
					flush()
					log.Println("ActivityRecorder: Stopped")
					return
				}
			}
		case a := <-r.queue:
			batch = append(batch, a)
			if len(batch) >= r.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Stats returns recorder counters for the health endpoint
func (r *Recorder) Stats() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return map[string]interface{}{
		"queued":     len(r.queue),
		"capacity":   cap(r.queue),
		"recorded":   r.recorded,
		"dropped":    r.dropped,
		"is_running": r.isRunning,
	}
}
