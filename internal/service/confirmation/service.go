package confirmation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/duplicate"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
	"github.com/josh-kwaku/dotpay-gateway/internal/origin"
	"github.com/josh-kwaku/dotpay-gateway/internal/payload"
	"github.com/josh-kwaku/dotpay-gateway/internal/signature"
)

type Config struct {
	SellerID    string
	PIN         string
	Lang        string
	SettleDelay time.Duration
	TestMode    bool
	APIUsername string
	APIPassword string
	ReturnURL   string
	Version     string
}

type Request struct {
	RemoteAddr   string
	ClientIP     string
	Method       string
	Notification domain.Notification
}

type Result struct {
	OrderID int64
	Outcome domain.Outcome
	// Suppressed is set when a rejected or pending notification left an
	// already paid order untouched.
	Suppressed   bool
	Tally        duplicate.Tally
	Acknowledged bool
}

type Service struct {
	cfg      Config
	guard    originGuard
	orders   orderStore
	events   eventStore
	channels channelNamer
	notifier notifier
	accounts accountChecker
	metrics  recorder
	hook     PostConfirmHook
}

type Deps struct {
	Guard    originGuard
	Orders   orderStore
	Events   eventStore
	Channels channelNamer
	Notifier notifier
	Accounts accountChecker
	Metrics  recorder
	Hook     PostConfirmHook
}

func NewService(cfg Config, deps Deps) *Service {
	hook := deps.Hook
	if hook == nil {
		hook = func(context.Context, *domain.Order) bool { return true }
	}
	return &Service{
		cfg:      cfg,
		guard:    deps.Guard,
		orders:   deps.Orders,
		events:   deps.Events,
		channels: deps.Channels,
		notifier: deps.Notifier,
		accounts: deps.Accounts,
		metrics:  deps.Metrics,
		hook:     hook,
	}
}

// Confirm verifies one notification and applies it to the referenced order.
// Every check runs before the first write; a failed check returns an error
// that Diagnostic renders for the caller.
func (s *Service) Confirm(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	ctx = logging.With(ctx,
		"operation_number", req.Notification.OperationNumber,
		"operation_status", req.Notification.OperationStatus,
	)

	res := &Result{}
	err := s.confirm(ctx, req, res)

	if s.metrics != nil {
		s.metrics.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.Rejected(reason(err))
		} else {
			s.metrics.Outcome(string(res.Outcome))
		}
	}
	if persistable(err) {
		s.record(ctx, req, res, err)
	} else {
		logging.FromContext(ctx).Warn("confirmation refused before authentication",
			"diagnostic", Diagnostic(err),
			"remote_addr", req.RemoteAddr,
		)
	}

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) confirm(ctx context.Context, req Request, res *Result) error {
	log := logging.FromContext(ctx)
	n := req.Notification

	if !s.guard.IsTrusted(req.RemoteAddr, req.ClientIP) {
		log.Warn("confirmation from untrusted origin", "remote_addr", req.RemoteAddr, "client_ip", req.ClientIP)
		return &OriginError{ClientIP: req.ClientIP, RemoteAddr: req.RemoteAddr}
	}
	if !origin.MethodAllowed(req.Method, http.MethodPost) {
		return domain.ErrTransportRejected
	}
	if !signature.VerifyConfirmation(s.cfg.PIN, s.cfg.SellerID, n) {
		log.Warn("confirmation signature mismatch")
		return domain.ErrSignatureInvalid
	}
	if n.ID != s.cfg.SellerID {
		return &SellerIDError{Expected: s.cfg.SellerID, Got: n.ID}
	}

	orderID := payload.ExtractOrderReference(n.Control)
	if orderID <= 0 {
		return fmt.Errorf("Confirm: control %q: %w", n.Control, domain.ErrMalformedReference)
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("Confirm: order %d: %w", orderID, domain.ErrOrderNotFound)
		}
		return fmt.Errorf("Confirm: %w", err)
	}
	res.OrderID = order.ID
	ctx = logging.With(ctx, "order_id", order.ID)

	if order.Currency != n.OperationOriginalCurrency {
		return &domain.MismatchError{
			Err:          domain.ErrCurrencyMismatch,
			Order:        order.Currency,
			Notification: n.OperationOriginalCurrency,
		}
	}
	orderAmount := payload.FormatAmount(order.Total)
	if orderAmount != payload.NormalizeAmount(n.OperationOriginalAmount) {
		return &domain.MismatchError{
			Err:          domain.ErrAmountMismatch,
			Order:        orderAmount,
			Notification: n.OperationOriginalAmount,
		}
	}

	if err := s.apply(ctx, order, n, res); err != nil {
		return fmt.Errorf("Confirm: %w", err)
	}

	res.Acknowledged = s.hook(ctx, order)
	if !res.Acknowledged {
		logging.FromContext(ctx).Warn("post-confirmation hook withheld acknowledgment")
	}
	return nil
}

func (s *Service) apply(ctx context.Context, order *domain.Order, n domain.Notification, res *Result) error {
	log := logging.FromContext(ctx)
	phrases := duplicate.PhrasesFor(s.cfg.Lang)
	data := s.noteData(ctx, n)

	switch n.OperationStatus {
	case domain.OperationStatusCompleted:
		outcome := domain.CompletedOutcome(order.NeedsProcessing, false)
		if err := s.orders.UpdateStatus(ctx, order.ID, outcome.OrderStatus(), phrases.PaidNote(data, order.NeedsProcessing)); err != nil {
			return fmt.Errorf("apply completed: %w", err)
		}

		if err := s.settle(ctx); err != nil {
			return err
		}
		err := s.orders.Transition(ctx, order.ID, func(_ domain.OrderStatus, notes []string) (domain.Transition, error) {
			tally := duplicate.TallyPositive(notes)
			res.Tally = tally
			if !tally.IsDuplicate() {
				return domain.Transition{}, nil
			}
			outcome = domain.CompletedOutcome(order.NeedsProcessing, true)
			return domain.Transition{
				Status: outcome.OrderStatus(),
				Notes:  []string{phrases.EscalationNote(order.ID, tally)},
			}, nil
		})
		if err != nil {
			return fmt.Errorf("apply double: %w", err)
		}
		if res.Tally.IsDuplicate() {
			if s.metrics != nil {
				s.metrics.Double()
			}
			log.Warn("double payment detected", "transactions", len(res.Tally))
		}

		res.Outcome = outcome
		if s.notifier != nil {
			s.notifier.PaymentCompleted(ctx, order.ID)
		}

	case domain.OperationStatusRejected:
		return s.applyNonPositive(ctx, order, res, domain.OutcomeRejected,
			phrases.CancelledNote(data),
			phrases.SuppressedNote(n.OperationNumber, phrases.Cancelled, phrases.PaidPhrase(order.NeedsProcessing)),
		)

	default:
		return s.applyNonPositive(ctx, order, res, domain.OutcomePending,
			phrases.PendingNote(data),
			phrases.SuppressedNote(n.OperationNumber, phrases.Processing, phrases.PaidPhrase(order.NeedsProcessing)),
		)
	}

	log.Info("confirmation applied", "outcome", res.Outcome)
	return nil
}

// applyNonPositive never moves a paid order backwards: once any positive
// notification is on record only the audit and informational notes are added.
// The tally is read under the order's row lock, so a positive notification
// committed concurrently is always seen.
func (s *Service) applyNonPositive(ctx context.Context, order *domain.Order, res *Result, outcome domain.Outcome, auditNote, suppressedNote string) error {
	if err := s.settle(ctx); err != nil {
		return err
	}

	var current domain.OrderStatus
	err := s.orders.Transition(ctx, order.ID, func(status domain.OrderStatus, notes []string) (domain.Transition, error) {
		current = status
		res.Tally = duplicate.TallyPositive(notes)
		res.Suppressed = res.Tally.HasPositive()
		if res.Suppressed {
			return domain.Transition{Notes: []string{auditNote, suppressedNote}}, nil
		}
		return domain.Transition{Status: outcome.OrderStatus(), Notes: []string{auditNote}}, nil
	})
	if err != nil {
		return fmt.Errorf("apply %s: %w", outcome, err)
	}

	if !res.Suppressed {
		res.Outcome = outcome
		logging.FromContext(ctx).Info("confirmation applied", "outcome", outcome)
		return nil
	}

	res.Outcome = outcome.Suppressed()
	logging.FromContext(ctx).Info("status change suppressed, order already paid",
		"outcome", res.Outcome,
		"order_status", current,
	)
	return nil
}

// settle waits for the settle delay so notifications delivered together
// are all on record before the tally is read.
func (s *Service) settle(ctx context.Context) error {
	if s.cfg.SettleDelay <= 0 {
		return nil
	}
	t := time.NewTimer(s.cfg.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("settle: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

func (s *Service) noteData(ctx context.Context, n domain.Notification) duplicate.NoteData {
	d := duplicate.NoteData{
		TransactionNumber: n.OperationNumber,
		ChannelID:         n.Channel,
	}
	if s.channels != nil && n.Channel != "" {
		d.ChannelName, d.ChannelLogo = s.channels.ChannelName(ctx, n.Channel)
	}
	return d
}

var redactedFields = map[string]struct{}{
	"blik_voucher_pin": {},
}

// maxAuditPayload caps the stored notification. Larger payloads keep only
// auditKeys.
const maxAuditPayload = 8 << 10

var auditKeys = []string{"id", "operation_number", "operation_status", "operation_original_amount", "operation_original_currency", "control"}

const maxAuditKeyValue = 128

// persistable reports whether a refused request gets an audit row. Requests
// turned away by the origin or method guard are only logged and counted.
func persistable(err error) bool {
	return !errors.Is(err, domain.ErrOriginRejected) && !errors.Is(err, domain.ErrTransportRejected)
}

func auditPayload(n domain.Notification) ([]byte, error) {
	fields := map[string]string{}
	for k, v := range n.Values() {
		if _, ok := redactedFields[k]; ok {
			continue
		}
		fields[k] = v[0]
	}
	raw, err := json.Marshal(fields)
	if err != nil || len(raw) <= maxAuditPayload {
		return raw, err
	}

	trimmed := map[string]string{"truncated": "true"}
	for _, k := range auditKeys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if len(v) > maxAuditKeyValue {
			v = v[:maxAuditKeyValue]
		}
		trimmed[k] = v
	}
	return json.Marshal(trimmed)
}

func (s *Service) record(ctx context.Context, req Request, res *Result, confirmErr error) {
	if s.events == nil {
		return
	}
	log := logging.FromContext(ctx)

	raw, err := auditPayload(req.Notification)
	if err != nil {
		log.Error("failed to marshal confirmation payload", "error", err)
		raw = json.RawMessage(`{}`)
	}

	event := &domain.ConfirmationEvent{
		ID:              uuid.New(),
		OperationNumber: req.Notification.OperationNumber,
		OperationStatus: req.Notification.OperationStatus,
		Diagnostic:      Diagnostic(confirmErr),
		RemoteAddr:      req.RemoteAddr,
		Payload:         raw,
		CreatedAt:       time.Now().UTC(),
	}
	if res.OrderID > 0 {
		id := res.OrderID
		event.OrderID = &id
	}
	if confirmErr == nil {
		outcome := res.Outcome
		event.Outcome = &outcome
		if !res.Acknowledged {
			event.Diagnostic = DiagnosticHook
		}
	}

	if err := s.events.Create(context.WithoutCancel(ctx), event); err != nil {
		log.Error("failed to record confirmation event", "error", err)
	}
}

// IsOffice reports whether the request is the processor's diagnostic request.
func (s *Service) IsOffice(remoteAddr, clientIP, method string) bool {
	return s.guard.IsOffice(remoteAddr, clientIP, method)
}
