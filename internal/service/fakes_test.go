package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
	"github.com/Haroldke13/geniusbabycosmetics/pkg/daraja"
)

// fakeProductRepo is an in-memory ProductRepository returning canned data
// and recording writes.
type fakeProductRepo struct {
	searchItems []models.Product
	searchTotal int
	lastQuery   repository.ProductQuery
	byKey       map[string]*models.Product
	slugOwners  map[string]primitive.ObjectID
	related     []models.Product
	featured    []models.Product
	latest      []models.Product
	categories  []string
	brands      []string

	created []*models.Product
	updated []*models.Product
	deleted []primitive.ObjectID

	err error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		byKey:      map[string]*models.Product{},
		slugOwners: map[string]primitive.ObjectID{},
	}
}

func (f *fakeProductRepo) add(p *models.Product) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.byKey[p.ID.Hex()] = p
	if p.Slug != "" {
		f.byKey[p.Slug] = p
		f.slugOwners[p.Slug] = p.ID
	}
}

func (f *fakeProductRepo) Search(_ context.Context, q repository.ProductQuery) ([]models.Product, int, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.searchItems, f.searchTotal, nil
}

func (f *fakeProductRepo) GetBySlugOrID(_ context.Context, key string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byKey[key]; ok {
		return p, nil
	}
	return nil, utils.ErrProductNotFound
}

func (f *fakeProductRepo) SlugExists(_ context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	owner, ok := f.slugOwners[slug]
	if !ok {
		return false, nil
	}
	if !excludeID.IsZero() && owner == excludeID {
		return false, nil
	}
	return true, nil
}

func (f *fakeProductRepo) Related(_ context.Context, _ *models.Product, _ int) ([]models.Product, error) {
	return f.related, f.err
}

func (f *fakeProductRepo) Featured(_ context.Context, _ int) ([]models.Product, error) {
	return f.featured, f.err
}

func (f *fakeProductRepo) Latest(_ context.Context, _ int) ([]models.Product, error) {
	return f.latest, f.err
}

func (f *fakeProductRepo) DistinctCategories(_ context.Context) ([]string, error) {
	return f.categories, f.err
}

func (f *fakeProductRepo) DistinctBrands(_ context.Context) ([]string, error) {
	return f.brands, f.err
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.slugOwners[p.Slug]; ok {
		return utils.ErrDuplicateSlug
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.add(p)
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	if f.err != nil {
		return f.err
	}
	if owner, ok := f.slugOwners[p.Slug]; ok && owner != p.ID {
		return utils.ErrDuplicateSlug
	}
	if _, ok := f.byKey[p.ID.Hex()]; !ok {
		return utils.ErrProductNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	f.byKey[p.ID.Hex()] = p
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byKey[id.Hex()]; !ok {
		return utils.ErrProductNotFound
	}
	delete(f.byKey, id.Hex())
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeSubscriberRepo keys subscribers by email.
type fakeSubscriberRepo struct {
	subs  map[string]*models.Subscriber
	order []string
	err   error
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{subs: map[string]*models.Subscriber{}}
}

func (f *fakeSubscriberRepo) Create(_ context.Context, s *models.Subscriber) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.subs[s.Email]; ok {
		return utils.ErrAlreadySubscribed
	}
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	f.subs[s.Email] = s
	f.order = append(f.order, s.Email)
	return nil
}

func (f *fakeSubscriberRepo) DeleteByEmail(_ context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.subs[email]; !ok {
		return utils.ErrSubscriberNotFound
	}
	delete(f.subs, email)
	return nil
}

func (f *fakeSubscriberRepo) List(_ context.Context, _, _ int) ([]models.Subscriber, int, error) {
	out := make([]models.Subscriber, 0, len(f.order))
	for _, email := range f.order {
		if s, ok := f.subs[email]; ok {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

// fakeContactRepo appends messages in order.
type fakeContactRepo struct {
	messages []*models.ContactMessage
	err      error
}

func (f *fakeContactRepo) Create(_ context.Context, m *models.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeContactRepo) List(_ context.Context, _, _ int) ([]models.ContactMessage, int, error) {
	out := make([]models.ContactMessage, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, *m)
	}
	return out, len(out), nil
}

// fakePaymentRepo keys payments by checkout request id.
type fakePaymentRepo struct {
	byCheckout map[string]*models.Payment
	order      []string
	err        error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byCheckout: map[string]*models.Payment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	if f.err != nil {
		return f.err
	}
	p.ID = primitive.NewObjectID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	if p.Status == "" {
		p.Status = models.PaymentStatusPending
	}
	f.byCheckout[p.CheckoutRequestID] = p
	f.order = append(f.order, p.CheckoutRequestID)
	return nil
}

func (f *fakePaymentRepo) GetByCheckoutID(_ context.Context, checkoutRequestID string) (*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byCheckout[checkoutRequestID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, utils.ErrPaymentNotFound
}

func (f *fakePaymentRepo) ApplyResult(_ context.Context, checkoutRequestID string, result repository.PaymentResult) (*models.Payment, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	p, ok := f.byCheckout[checkoutRequestID]
	if !ok {
		return nil, false, utils.ErrPaymentNotFound
	}
	if p.Status != models.PaymentStatusPending {
		copied := *p
		return &copied, false, nil
	}
	p.Status = result.Status
	p.ResultCode = result.ResultCode
	if result.ResultDesc != "" {
		p.ResultDesc = result.ResultDesc
	}
	if result.MpesaReceipt != "" {
		p.MpesaReceipt = result.MpesaReceipt
	}
	if result.TransactionDate != "" {
		p.TransactionDate = result.TransactionDate
	}
	p.UpdatedAt = time.Now().UTC()
	copied := *p
	return &copied, true, nil
}

func (f *fakePaymentRepo) ListStalePending(_ context.Context, olderThan time.Time, limit int) ([]models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Payment, 0, limit)
	for _, id := range f.order {
		p := f.byCheckout[id]
		if p.Status == models.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			out = append(out, *p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeMailer records sent mail.
type fakeMailer struct {
	enabled bool
	err     error
	sent    []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Enabled() bool {
	return f.enabled
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// fakeDaraja is a canned Daraja API.
type fakeDaraja struct {
	pushResp  *daraja.STKPushResponse
	pushErr   error
	queryResp map[string]*daraja.STKQueryResponse
	queryErr  error

	pushes  []daraja.STKPushInput
	queries []string
}

func (f *fakeDaraja) STKPush(_ context.Context, in daraja.STKPushInput) (*daraja.STKPushResponse, error) {
	f.pushes = append(f.pushes, in)
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	if f.pushResp != nil {
		return f.pushResp, nil
	}
	return &daraja.STKPushResponse{
		MerchantRequestID: fmt.Sprintf("m-%d", len(f.pushes)),
		CheckoutRequestID: fmt.Sprintf("ws_CO_%d", len(f.pushes)),
		ResponseCode:      "0",
	}, nil
}

func (f *fakeDaraja) STKQuery(_ context.Context, checkoutRequestID string) (*daraja.STKQueryResponse, error) {
	f.queries = append(f.queries, checkoutRequestID)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if resp, ok := f.queryResp[checkoutRequestID]; ok {
		return resp, nil
	}
	return &daraja.STKQueryResponse{
		ErrorCode:    daraja.ErrCodeProcessing,
		ErrorMessage: "The transaction is being processed",
	}, nil
}

// fakeNotifier collects broadcast payments.
type fakeNotifier struct {
	created []*models.Payment
	events  []*models.Payment
}

func (f *fakeNotifier) NotifyPaymentCreated(p *models.Payment) {
	f.created = append(f.created, p)
}

func (f *fakeNotifier) NotifyPaymentStatusChanged(p *models.Payment) {
	f.events = append(f.events, p)
}
