// Package daemon serves one cplan session over HTTP: JSON endpoints for the
// dashboard operations plus an event ring buffer and an SSE stream.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/logging"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/source"
	"github.com/theirongolddev/cplan/internal/store"
)

// Event types.
const (
	EventSnapshot       = "snapshot"
	EventScoreSimulated = "score_simulated"
	EventSpendingAdded  = "spending_added"
	EventGuidanceReady  = "guidance_ready"
	EventGuidanceFailed = "guidance_failed"
	EventCredential     = "credential_checked"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Thresholds   pipeline.Thresholds
	Now          func() time.Time
}

// Advisor requests guidance for a snapshot. *advisor.Service satisfies it.
type Advisor interface {
	RequestGuidance(ctx context.Context, req model.GuidanceRequest) (string, error)
}

// Deps are the collaborators a Service drives.
type Deps struct {
	Advisor  Advisor
	Selector session.KeySelector // nil assumes a key is available
	Ledger   *store.Ledger
	Logger   *slog.Logger
}

// BillView is a bill as served over JSON.
type BillView struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"`
	IsPaid  bool            `json:"is_paid"`
}

// Snapshot is the session state served in status and event payloads.
type Snapshot struct {
	At                 time.Time       `json:"at"`
	CardID             string          `json:"card_id"`
	CardName           string          `json:"card_name"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	AvailableCredit    decimal.Decimal `json:"available_credit"`
	MinPaymentDue      decimal.Decimal `json:"min_payment_due"`
	PaymentDueDate     string          `json:"payment_due_date"`
	Utilization        float64         `json:"utilization"`
	UtilizationPercent float64         `json:"utilization_percent"`
	Level              string          `json:"level"`
	LevelLabel         string          `json:"level_label"`
	Score              int             `json:"score"`
	SimulatedScore     *int            `json:"simulated_score,omitempty"`
	SpendingCount      int             `json:"spending_count"`
	Bills              []BillView      `json:"bills"`
	CredentialSelected bool            `json:"credential_selected"`
	Loading            bool            `json:"loading"`
	Guidance           string          `json:"guidance,omitempty"`
	Error              string          `json:"error,omitempty"`
}

// Event is emitted whenever the session changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Snapshot        Snapshot  `json:"snapshot"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg      Config
	advisor  Advisor
	selector session.KeySelector
	ledger   *store.Ledger
	log      *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	st          session.State
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service for st. The card is written to the ledger and the
// credential is checked once before any request is served.
func New(cfg Config, st session.State, deps Deps) (*Service, error) {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Thresholds = cfg.Thresholds.Normalize()
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Ledger == nil {
		return nil, errors.New("daemon: ledger is required")
	}
	if deps.Advisor == nil {
		return nil, errors.New("daemon: advisor is required")
	}
	if err := deps.Ledger.SaveCard(st.Card); err != nil {
		return nil, fmt.Errorf("seeding ledger: %w", err)
	}

	s := &Service{
		cfg:       cfg,
		advisor:   deps.Advisor,
		selector:  deps.Selector,
		ledger:    deps.Ledger,
		log:       deps.Logger,
		startedAt: cfg.Now(),
		st:        session.CheckCredential(context.Background(), st, deps.Selector),
		subs:      make(map[int]chan Event),
	}
	s.emit(EventSnapshot)
	return s, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("POST /v1/simulate", s.handleSimulate)
	mux.HandleFunc("POST /v1/guidance", s.handleGuidance)
	mux.HandleFunc("POST /v1/credential", s.handleCredential)
	mux.HandleFunc("GET /v1/spending", s.handleListSpending)
	mux.HandleFunc("POST /v1/spending", s.handleAddSpending)
	mux.HandleFunc("GET /v1/spending/daily", s.handleDailySpend)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run serves the HTTP API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// snapshotLocked builds a Snapshot. Caller holds s.mu.
func (s *Service) snapshotLocked() Snapshot {
	sum := session.Summarize(s.st, s.cfg.Thresholds)
	card := s.st.Card

	bills := make([]BillView, len(sum.Bills))
	for i, b := range sum.Bills {
		bills[i] = BillView{
			ID:      b.ID,
			Name:    b.Name,
			Amount:  b.Amount,
			DueDate: b.DueDate.Format(time.DateOnly),
			IsPaid:  b.IsPaid,
		}
	}

	snap := Snapshot{
		At:                 s.cfg.Now(),
		CardID:             card.ID,
		CardName:           card.Name,
		CreditLimit:        card.CreditLimit,
		CurrentBalance:     card.CurrentBalance,
		AvailableCredit:    sum.Available,
		MinPaymentDue:      card.MinPaymentDue,
		PaymentDueDate:     card.PaymentDueDate.Format(time.DateOnly),
		Utilization:        sum.Utilization,
		UtilizationPercent: sum.Percent,
		Level:              sum.Level.String(),
		LevelLabel:         sum.Level.Label(),
		Score:              int(s.st.Score),
		SpendingCount:      len(card.SpendingHistory),
		Bills:              bills,
		CredentialSelected: s.st.CredentialSelected,
		Loading:            s.st.Loading,
		Guidance:           s.st.Guidance,
		Error:              s.st.Error,
	}
	if s.st.Simulated != nil {
		v := int(*s.st.Simulated)
		snap.SimulatedScore = &v
	}
	return snap
}

// emit records an event of type typ for the current state.
func (s *Service) emit(typ string) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotLocked(),
	}
	s.mu.Unlock()
	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Snapshot:        s.snapshotLocked(),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// ─── Handlers ───────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

type simulateRequest struct {
	Action string          `json:"action"`
	Amount decimal.Decimal `json:"amount"`
}

type simulateResponse struct {
	Action         string `json:"action"`
	Amount         string `json:"amount"`
	Score          int    `json:"score"`
	SimulatedScore int    `json:"simulated_score"`
	Delta          int    `json:"delta"`
}

func (s *Service) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	action, err := model.ParseScoreAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	s.mu.Lock()
	s.st = session.Simulate(s.st, action, req.Amount)
	resp := simulateResponse{
		Action:         string(action),
		Amount:         req.Amount.StringFixed(2),
		Score:          int(s.st.Score),
		SimulatedScore: int(*s.st.Simulated),
	}
	s.mu.Unlock()
	resp.Delta = resp.SimulatedScore - resp.Score

	s.emit(EventScoreSimulated)
	writeJSON(w, http.StatusOK, resp)
}

type guidanceResponse struct {
	Guidance           string `json:"guidance,omitempty"`
	Error              string `json:"error,omitempty"`
	CredentialSelected bool   `json:"credential_selected"`
}

// handleGuidance runs one request synchronously. Overlapping requests get
// 409 and the in-flight one is unaffected.
func (s *Service) handleGuidance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.st.Loading {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "a guidance request is already in progress")
		return
	}
	st, ok := session.BeginGuidance(s.st)
	s.st = st
	if !ok {
		msg := st.Error
		s.mu.Unlock()
		writeError(w, http.StatusPreconditionFailed, msg)
		return
	}
	req := session.GuidanceRequest(s.st)
	cardID := s.st.Card.ID
	s.mu.Unlock()

	s.log.Info("guidance requested", "card_id", cardID, "score", req.CreditScore)
	text, err := s.advisor.RequestGuidance(r.Context(), req)

	s.mu.Lock()
	s.st = session.FinishGuidance(s.st, text, err)
	resp := guidanceResponse{
		Guidance:           s.st.Guidance,
		Error:              s.st.Error,
		CredentialSelected: s.st.CredentialSelected,
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("guidance failed", "error", err)
		s.emit(EventGuidanceFailed)
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	s.emit(EventGuidanceReady)
	writeJSON(w, http.StatusOK, resp)
}

// handleCredential re-checks whether a key is available, e.g. after the
// config file was edited. A key error left by an earlier request is cleared
// once one is.
func (s *Service) handleCredential(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.st = session.CheckCredential(r.Context(), s.st, s.selector)
	resp := guidanceResponse{Error: s.st.Error, CredentialSelected: s.st.CredentialSelected}
	s.mu.Unlock()

	s.emit(EventCredential)
	writeJSON(w, http.StatusOK, resp)
}

type spendingRequest struct {
	Date        string          `json:"date"` // YYYY-MM-DD or RFC 3339; empty means now
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (s *Service) handleAddSpending(w http.ResponseWriter, r *http.Request) {
	var req spendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	date := s.cfg.Now()
	if req.Date != "" {
		d, err := source.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = d
	}
	entry := model.SpendingEntry{Date: date, Amount: req.Amount, Description: req.Description}

	s.mu.Lock()
	id, err := s.ledger.AppendSpending(s.st.Card.ID, entry)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("recording spending", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.st = session.AddSpending(s.st, entry)
	count, err := s.ledger.SpendingCount(s.st.Card.ID)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("counting spending", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.emit(EventSpendingAdded)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "spending_count": count})
}

type spendingView struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// handleListSpending serves the recorded history, oldest record first.
func (s *Service) handleListSpending(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	cardID := s.st.Card.ID
	s.mu.RUnlock()

	card, err := s.ledger.LoadCard(cardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]spendingView, len(card.SpendingHistory))
	for i, e := range card.SpendingHistory {
		out[i] = spendingView{Date: e.Date.Format(time.DateOnly), Amount: e.Amount, Description: e.Description}
	}
	writeJSON(w, http.StatusOK, out)
}

type dailySpendView struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (s *Service) handleDailySpend(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	now := s.cfg.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(days - 1))

	s.mu.RLock()
	cardID := s.st.Card.ID
	s.mu.RUnlock()

	daily, err := s.ledger.DailySpend(cardID, since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]dailySpendView, len(daily))
	for i, d := range daily {
		out[i] = dailySpendView{Date: d.Date.Format(time.DateOnly), Total: d.Total, Count: d.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Snapshot,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
