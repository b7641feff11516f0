// Command poolbench exercises a genpool.Pool of byte buffers under
// concurrent load and prints periodic population stats. It's a manual
// soak-testing aid during development, not a production surface.
package main

import (
	"bytes"
	"flag"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	pool "github.com/martopia/genpool"
)

func main() {
	capacity := flag.Int("capacity", 16, "pool capacity")
	workers := flag.Int("workers", 32, "number of concurrent workers")
	duration := flag.Duration("duration", 10*time.Second, "how long to run")
	maxIdle := flag.Duration("max-idle", 2*time.Second, "idle eviction timeout (0 disables expiry)")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("cmd", "poolbench").Logger()

	opts := []pool.Option[*bytes.Buffer]{
		pool.WithReset(func(b *bytes.Buffer) { b.Reset() }),
		pool.WithLogger[*bytes.Buffer](logger),
	}
	if *maxIdle > 0 {
		opts = append(opts, pool.WithMaxIdleTime[*bytes.Buffer](*maxIdle))
	}

	p, err := pool.New(*capacity, func() (*bytes.Buffer, error) {
		return bytes.NewBuffer(make([]byte, 0, 4096)), nil
	}, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to construct pool")
	}

	stop := time.After(*duration)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var wg sync.WaitGroup
	done := make(chan struct{})

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				lease, err := p.TryAcquireWithin(100 * time.Millisecond)
				if err != nil || lease == nil {
					continue
				}
				err = lease.Use(func(buf *bytes.Buffer) error {
					buf.WriteString("work")
					time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
					return nil
				})
				if err != nil {
					logger.Warn().Err(err).Msg("worker callback failed")
				}
			}
		}()
	}

loop:
	for {
		select {
		case <-stop:
			break loop
		case <-ticker.C:
			s := p.Stats()
			logger.Info().
				Int("size", s.Size).
				Int("live", s.Live).
				Int("leased", s.Leased).
				Int("capacity", s.Capacity).
				Msg("pool stats")
		}
	}

	close(done)
	wg.Wait()
	p.Close()
	logger.Info().Msg("poolbench finished")
}
