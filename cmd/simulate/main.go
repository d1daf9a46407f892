// Command simulate drives concurrent booking sessions against a running
// api-server and reports latency, conflict rates, and any double bookings
// observed from the client side.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

type SimConfig struct {
	APIBaseURL string
	Duration   time.Duration
	Workers    int
}

// BookedSet records every slot the server confirmed to us. A second 201 for
// the same slot means the server double-booked.
type BookedSet struct {
	mu         sync.Mutex
	slots      map[string]bool
	duplicates int64
}

func (b *BookedSet) Add(doctor, date, timeOfDay string) {
	key := doctor + "|" + date + "|" + timeOfDay
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slots == nil {
		b.slots = make(map[string]bool)
	}
	if b.slots[key] {
		b.duplicates++
	}
	b.slots[key] = true
}

func (b *BookedSet) Counts() (booked int, duplicates int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots), b.duplicates
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Lookup     OperationMetrics
	ChooseSlot OperationMetrics
	Book       OperationMetrics
}

type Simulator struct {
	config  SimConfig
	client  *http.Client
	metrics Metrics
	booked  BookedSet
	doctors []string
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := SimConfig{
		APIBaseURL: getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:   getDuration("SIM_DURATION", 30*time.Second),
		Workers:    getInt("SIM_WORKERS", 10),
	}
	if cfg.Workers <= 0 {
		log.Fatal("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		log.Fatal("SIM_DURATION must be > 0")
	}

	log.Printf("config: base_url=%s duration=%s workers=%d", cfg.APIBaseURL, cfg.Duration, cfg.Workers)

	gofakeit.Seed(time.Now().UnixNano())

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}

	if err := sim.loadDoctors(); err != nil {
		log.Fatalf("load doctors: %v", err)
	}
	log.Printf("loaded %d doctors", len(sim.doctors))

	sim.Run()
	sim.PrintReport()
}

func (s *Simulator) loadDoctors() error {
	resp, err := s.client.Get(s.config.APIBaseURL + "/doctors")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /doctors returned %d", resp.StatusCode)
	}

	var out struct {
		Doctors []string `json:"doctors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if len(out.Doctors) == 0 {
		return fmt.Errorf("no doctors available, seed the server first")
	}

	s.doctors = out.Doctors
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.runSession(ctx, rng)
		}
	}
}

type slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// runSession walks one full booking conversation: create a session, look up
// an unknown patient, file intake, pick an open slot, and book it.
func (s *Simulator) runSession(ctx context.Context, rng *rand.Rand) {
	var sess struct {
		SessionID string `json:"session_id"`
	}
	if code, err := s.doJSON(ctx, http.MethodPost, "/sessions", nil, &sess); err != nil || code != http.StatusCreated {
		return
	}

	name := gofakeit.Name()
	dob := gofakeit.DateRange(time.Now().AddDate(-90, 0, 0), time.Now().AddDate(-18, 0, 0)).Format("2006-01-02")

	start := time.Now()
	code, err := s.doJSON(ctx, http.MethodPost, "/sessions/"+sess.SessionID+"/lookup",
		map[string]string{"name": name, "dob": dob}, nil)
	s.metrics.Lookup.Record(time.Since(start), err == nil && code == http.StatusOK, false)
	if err != nil || code != http.StatusOK {
		return
	}

	_, err = s.doJSON(ctx, http.MethodPut, "/sessions/"+sess.SessionID+"/intake", map[string]string{
		"email":               gofakeit.Email(),
		"location":            gofakeit.City(),
		"phone":               gofakeit.Phone(),
		"insurance_member_id": gofakeit.Numerify(gofakeit.Lexify("???####")),
		"insurance_group":     gofakeit.Numerify("G#"),
	}, nil)
	if err != nil {
		return
	}

	doctor := s.doctors[rng.Intn(len(s.doctors))]

	var slotsResp struct {
		Slots []slot `json:"slots"`
	}
	code, err = s.doJSON(ctx, http.MethodGet, "/doctors/"+url.PathEscape(doctor)+"/slots", nil, &slotsResp)
	if err != nil || code != http.StatusOK || len(slotsResp.Slots) == 0 {
		return
	}

	chosen := slotsResp.Slots[rng.Intn(len(slotsResp.Slots))]

	start = time.Now()
	code, err = s.doJSON(ctx, http.MethodPost, "/sessions/"+sess.SessionID+"/slot",
		map[string]string{"doctor": doctor, "date": chosen.Date, "time": chosen.Time}, nil)
	s.metrics.ChooseSlot.Record(time.Since(start), err == nil && code == http.StatusOK, err == nil && code == http.StatusConflict)
	if err != nil || code != http.StatusOK {
		return
	}

	start = time.Now()
	code, err = s.doJSON(ctx, http.MethodPost, "/sessions/"+sess.SessionID+"/book", nil, nil)
	success := err == nil && code == http.StatusCreated
	conflict := err == nil && code == http.StatusConflict
	s.metrics.Book.Record(time.Since(start), success, conflict)

	if success {
		s.booked.Add(doctor, chosen.Date, chosen.Time)
	}
}

func (s *Simulator) doJSON(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (s *Simulator) PrintReport() {
	booked, duplicates := s.booked.Counts()

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Printf("Slots booked: %d\n", booked)
	fmt.Printf("Double bookings observed: %d\n", duplicates)
	fmt.Println()

	printOperationReport("Lookup", &s.metrics.Lookup)
	printOperationReport("Choose Slot", &s.metrics.ChooseSlot)
	printOperationReport("Book", &s.metrics.Book)

	if duplicates > 0 {
		fmt.Println("WARNING: the server confirmed the same slot more than once")
	}
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errors := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errors > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errors, float64(errors)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
