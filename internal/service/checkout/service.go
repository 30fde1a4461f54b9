package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
	"github.com/josh-kwaku/dotpay-gateway/internal/payload"
	"github.com/josh-kwaku/dotpay-gateway/internal/session"
	"github.com/josh-kwaku/dotpay-gateway/internal/signature"
)

type orderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

type sessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*session.Checkout, error)
	Remember(ctx context.Context, id uuid.UUID, c session.Checkout) error
	ForgetChannel(ctx context.Context, id uuid.UUID) error
	ForgetProductName(ctx context.Context, id uuid.UUID) error
}

type processor interface {
	AccountIsValid(ctx context.Context, creds dotpay.Credentials) (bool, error)
	ListChannels(ctx context.Context, q dotpay.ChannelQuery) ([]dotpay.Channel, error)
	PaymentURL() string
}

type channelCache interface {
	Put(ctx context.Context, channels []dotpay.Channel) error
}

type Config struct {
	SellerID    string
	PIN         string
	APIUsername string
	APIPassword string
	Lang        string
	ShopName    string
	ShopDomain  string
	APIVersion  string
	// PublicBaseURL prefixes the form, return and confirmation URLs.
	PublicBaseURL string
}

type StartRequest struct {
	OrderID int64 `json:"order_id"`
	// Email must match the order's billing email. Order IDs are sequential,
	// so the ID alone does not prove the session owns the order.
	Email       string `json:"email"`
	Channel     int    `json:"channel"`
	ProductName string `json:"product_name"`
}

type StartResult struct {
	Gateway  Gateway `json:"gateway"`
	Redirect string  `json:"redirect"`
}

// Form is the signed redirect form: the buyer's browser posts Fields to Action.
type Form struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

type Service struct {
	cfg       Config
	orders    orderReader
	sessions  sessionStore
	processor processor
	catalog   channelCache
}

func NewService(cfg Config, orders orderReader, sessions sessionStore, processor processor, catalog channelCache) *Service {
	return &Service{
		cfg:       cfg,
		orders:    orders,
		sessions:  sessions,
		processor: processor,
		catalog:   catalog,
	}
}

// Start remembers the checkout in the session and picks the gateway that
// renders the form.
func (s *Service) Start(ctx context.Context, sessionID uuid.UUID, req StartRequest) (*StartResult, error) {
	if req.OrderID <= 0 {
		return nil, fmt.Errorf("Start: order_id: %w", domain.ErrInvalidRequest)
	}
	if req.Channel < 0 {
		return nil, fmt.Errorf("Start: channel: %w", domain.ErrInvalidRequest)
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("Start: %w", err)
	}
	if !ownsOrder(order, req.Email) {
		logging.FromContext(ctx).Warn("checkout email does not match order", "order_id", order.ID)
		return nil, fmt.Errorf("Start: order %d: %w", order.ID, domain.ErrNotFound)
	}
	if order.Status.IsPaid() {
		return nil, fmt.Errorf("Start: order %d already paid: %w", order.ID, domain.ErrInvalidRequest)
	}

	err = s.sessions.Remember(ctx, sessionID, session.Checkout{
		OrderID:     order.ID,
		Channel:     req.Channel,
		ProductName: strings.TrimSpace(req.ProductName),
	})
	if err != nil {
		return nil, fmt.Errorf("Start: %w", err)
	}

	gateway := s.resolveGateway(logging.With(ctx, "order_id", order.ID), order, req.Channel)
	return &StartResult{
		Gateway:  gateway,
		Redirect: s.url("/dotpay/form", url.Values{"gateway": {string(gateway)}}),
	}, nil
}

func ownsOrder(order *domain.Order, email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.EqualFold(email, strings.TrimSpace(order.Customer.Email))
}

// resolveGateway falls back to the standard gateway whenever the channel
// list or the account check is unavailable.
func (s *Service) resolveGateway(ctx context.Context, order *domain.Order, channelID int) Gateway {
	log := logging.FromContext(ctx)

	channels, err := s.processor.ListChannels(ctx, dotpay.ChannelQuery{
		SellerID: s.cfg.SellerID,
		Amount:   payload.FormatAmount(order.Total),
		Currency: order.Currency,
		Lang:     s.cfg.Lang,
	})
	if err != nil {
		log.Warn("channel list unavailable", "error", err)
		return GatewayStandard
	}
	if s.catalog != nil {
		if err := s.catalog.Put(ctx, channels); err != nil {
			log.Warn("failed to cache channel list", "error", err)
		}
	}

	r, ok := routeFor(channels, channelID)
	if !ok {
		return GatewayStandard
	}
	if r.requiresAccount {
		valid, err := s.processor.AccountIsValid(ctx, dotpay.Credentials{
			Username: s.cfg.APIUsername,
			Password: s.cfg.APIPassword,
			SellerID: s.cfg.SellerID,
		})
		if err != nil {
			log.Warn("seller account check failed", "error", err)
			return GatewayStandard
		}
		if !valid {
			return GatewayStandard
		}
	}
	return r.gateway
}

// Form builds and signs the payment form for the session's order. The
// selected channel and product name are single-use and dropped here.
func (s *Service) Form(ctx context.Context, sessionID uuid.UUID, gateway Gateway) (*Form, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("Form: %w", err)
	}
	if sess.OrderID <= 0 {
		return nil, fmt.Errorf("Form: %w", domain.ErrSessionNotFound)
	}

	order, err := s.orders.GetByID(ctx, sess.OrderID)
	if err != nil {
		return nil, fmt.Errorf("Form: %w", err)
	}

	fields, err := s.fields(order, sess, gateway)
	if err != nil {
		return nil, fmt.Errorf("Form: %w", err)
	}

	log := logging.FromContext(ctx)
	if err := s.sessions.ForgetChannel(ctx, sessionID); err != nil {
		log.Warn("failed to forget session channel", "error", err)
	}
	if err := s.sessions.ForgetProductName(ctx, sessionID); err != nil {
		log.Warn("failed to forget session product name", "error", err)
	}

	chk, err := signature.ComputeCHK(s.cfg.PIN, fields)
	if err != nil {
		return nil, fmt.Errorf("Form: %w", err)
	}
	fields["chk"] = chk

	log.Info("payment form built", "order_id", order.ID, "gateway", gateway)
	return &Form{Action: s.processor.PaymentURL(), Fields: fields}, nil
}

func (s *Service) fields(order *domain.Order, sess *session.Checkout, gateway Gateway) (map[string]string, error) {
	c := order.Customer
	description := fmt.Sprintf("%s: %d", s.cfg.ShopName, order.ID)
	if sess.ProductName != "" {
		description += " " + sess.ProductName
	}

	f := map[string]string{
		"id":            s.cfg.SellerID,
		"control":       payload.BuildControl(order.ID, s.cfg.ShopDomain),
		"p_info":        s.cfg.ShopName,
		"amount":        payload.FormatAmount(order.Total),
		"currency":      order.Currency,
		"description":   description,
		"lang":          s.cfg.Lang,
		"url":           s.url("/dotpay/status", nil),
		"urlc":          s.url("/dotpay/confirm", nil),
		"api_version":   s.cfg.APIVersion,
		"type":          "0",
		"firstname":     c.FirstName,
		"lastname":      c.LastName,
		"email":         c.Email,
		"personal_data": "1",
		"bylaw":         "1",
	}

	optional := map[string]string{
		"phone":     c.Phone,
		"street":    c.Billing.Street,
		"street_n1": c.Billing.BuildingNumber,
		"city":      c.Billing.City,
		"postcode":  c.Billing.Postcode,
	}
	for k, v := range optional {
		if v = strings.TrimSpace(v); v != "" && !(k == "street_n1" && v == "0") {
			f[k] = v
		}
	}
	if f["postcode"] != "" && c.Billing.Country != "" {
		f["country"] = c.Billing.Country
	}

	customer, err := customerBase64(c)
	if err != nil {
		return nil, fmt.Errorf("encode customer: %w", err)
	}
	if customer != "" {
		f["customer"] = customer
	}

	if sess.Channel > 0 {
		f["channel"] = strconv.Itoa(sess.Channel)
		if gateway == GatewayTransfer {
			f["ch_lock"] = "1"
		}
	}
	return f, nil
}

func (s *Service) url(path string, q url.Values) string {
	u := strings.TrimRight(s.cfg.PublicBaseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
