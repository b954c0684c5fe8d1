// Package sweeper periodically drives shifts past their end time into
// their terminal state (Completed or Expired).
package sweeper

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"shiftdesk/internal/services"
)

// Sweeper runs the completion/expiry sweep on an interval.
type Sweeper struct {
	shifts   services.ShiftService
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	logger   *log.Logger
}

// NewSweeper creates a sweeper over the given shift service.
func NewSweeper(shifts services.ShiftService, interval time.Duration) *Sweeper {
	return &Sweeper{
		shifts:   shifts,
		interval: interval,
		stopChan: make(chan struct{}),
		logger:   log.New(os.Stdout, "[Sweeper] ", log.LstdFlags),
	}
}

// Start begins sweeping in a separate goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.sweepLoop(ctx)
	s.logger.Printf("Started shift sweep, interval: %s", s.interval)
}

// Stop signals the sweeper to shut down and waits for it to complete.
func (s *Sweeper) Stop() {
	s.logger.Printf("Stopping shift sweep")
	close(s.stopChan) // Signal the loop to stop
	s.wg.Wait()       // Wait for the loop goroutine to finish
	s.logger.Printf("Shift sweep stopped.")
}

func (s *Sweeper) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep once on startup so shifts that became due while the service
	// was down are not delayed by a full interval.
	s.sweepOnce(ctx)

	for {
		select {
		case <-s.stopChan:
			s.logger.Println("Received stop signal, shutting down sweep loop.")
			return
		case <-ctx.Done():
			s.logger.Println("Context cancelled, shutting down sweep loop.")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	processed, err := s.shifts.SweepDue(ctx, time.Now())
	if err != nil {
		s.logger.Printf("ERROR: Sweep failed: %v", err)
		return
	}
	if processed > 0 {
		s.logger.Printf("Sweep transitioned %d shifts", processed)
	}
}
