package ledger_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

const (
	admin int64 = 1
	donor int64 = 9
)

// memLedger keeps donations and balances in memory. A consume transaction
// holds the lock until it commits or rolls back and only publishes its
// writes on commit.
type memLedger struct {
	mu        sync.Mutex
	txLock    sync.Mutex
	clock     time.Time
	donations []ledger.Donation
	balances  map[int64]decimal.Decimal
}

func newMemLedger() *memLedger {
	return &memLedger{
		clock:    time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		balances: make(map[int64]decimal.Decimal),
	}
}

func (m *memLedger) CreateDonation(_ context.Context, d *ledger.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock = m.clock.Add(time.Minute)
	d.ID = uuid.New()
	d.CreatedAt = m.clock
	m.donations = append(m.donations, *d)
	m.balances[d.AdminID] = m.balances[d.AdminID].Add(d.KwhAmount)

	return nil
}

func (m *memLedger) SumDonations(_ context.Context, adminID, donorID int64, used bool) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := decimal.Zero

	for _, d := range m.donations {
		if d.AdminID == adminID && d.DonorID == donorID && d.IsUsed == used {
			sum = sum.Add(d.KwhAmount)
		}
	}

	return sum, nil
}

func (m *memLedger) ListDonations(_ context.Context, adminID, donorID int64) ([]*ledger.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*ledger.Donation

	for _, d := range m.donations {
		if d.AdminID == adminID && d.DonorID == donorID {
			out = append(out, &d)
		}
	}

	return out, nil
}

func (m *memLedger) Summary(context.Context, int64) ([]ledger.DonorSummary, error) {
	return nil, errors.New("not used")
}

func (m *memLedger) BeginConsume(context.Context, int64, int64) (ledger.ConsumeTx, error) {
	m.txLock.Lock()

	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[int64]decimal.Decimal, len(m.balances))
	for k, v := range m.balances {
		staged[k] = v
	}

	return &memConsumeTx{m: m, donations: slices.Clone(m.donations), balances: staged}, nil
}

func (m *memLedger) balance(id int64) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[id]
}

type memConsumeTx struct {
	m         *memLedger
	donations []ledger.Donation
	balances  map[int64]decimal.Decimal
	done      bool
}

func (tx *memConsumeTx) UsedForOffer(_ context.Context, offerID uuid.UUID) (decimal.Decimal, int, error) {
	sum, n := decimal.Zero, 0

	for _, d := range tx.donations {
		if d.UsedInOfferID != nil && *d.UsedInOfferID == offerID {
			sum = sum.Add(d.KwhAmount)
			n++
		}
	}

	return sum, n, nil
}

func (tx *memConsumeTx) ListUnused(_ context.Context, adminID, donorID int64) ([]*ledger.Donation, error) {
	var out []*ledger.Donation

	for _, d := range tx.donations {
		if d.AdminID == adminID && d.DonorID == donorID && !d.IsUsed {
			out = append(out, &d)
		}
	}

	slices.SortStableFunc(out, func(a, b *ledger.Donation) int { return a.CreatedAt.Compare(b.CreatedAt) })

	return out, nil
}

func (tx *memConsumeTx) find(id uuid.UUID) *ledger.Donation {
	for i := range tx.donations {
		if tx.donations[i].ID == id {
			return &tx.donations[i]
		}
	}

	return nil
}

func (tx *memConsumeTx) MarkUsed(_ context.Context, id, offerID uuid.UUID) error {
	d := tx.find(id)
	if d == nil || d.IsUsed {
		return errors.New("donation not available")
	}

	d.IsUsed = true
	d.UsedInOfferID = &offerID

	return nil
}

func (tx *memConsumeTx) Shrink(_ context.Context, id uuid.UUID, kwh decimal.Decimal) error {
	d := tx.find(id)
	if d == nil {
		return errors.New("donation not found")
	}

	d.KwhAmount = kwh

	return nil
}

func (tx *memConsumeTx) InsertDonation(_ context.Context, d *ledger.Donation) error {
	d.ID = uuid.New()
	tx.donations = append(tx.donations, *d)

	return nil
}

func (tx *memConsumeTx) DebitBalance(_ context.Context, userID int64, kwh decimal.Decimal, allowNegative bool) error {
	next := tx.balances[userID].Sub(kwh)
	if !allowNegative && next.IsNegative() {
		next = decimal.Zero
	}

	tx.balances[userID] = next

	return nil
}

func (tx *memConsumeTx) Commit() error {
	if tx.done {
		return errors.New("transaction already closed")
	}

	tx.m.mu.Lock()
	tx.m.donations = tx.donations
	tx.m.balances = tx.balances
	tx.m.mu.Unlock()

	tx.done = true
	tx.m.txLock.Unlock()

	return nil
}

func (tx *memConsumeTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.m.txLock.Unlock()

	return nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, int64, string, notify.Keyboard) error { return nil }

func kwh(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func adminOffer(charged string) *offer.Offer {
	return &offer.Offer{
		ID:         uuid.New(),
		BuyerID:    admin,
		SellerID:   donor,
		Status:     offer.StatusCompleted,
		KwhCharged: decimal.NewNullDecimal(kwh(charged)),
	}
}

func TestService_ConsumeSplitsOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newMemLedger()
	svc := ledger.NewService(repo, nopNotifier{}, zap.NewNop())

	_, err := svc.Donate(ctx, donor, admin, kwh("5"))
	require.NoError(t, err)

	second, err := svc.Donate(ctx, donor, admin, kwh("3"))
	require.NoError(t, err)

	available, err := svc.Available(ctx, admin, donor)
	require.NoError(t, err)
	assert.True(t, kwh("8").Equal(available))
	assert.True(t, kwh("8").Equal(repo.balance(admin)))

	o := adminOffer("6")

	res, err := svc.ConsumeForOffer(ctx, o)
	require.NoError(t, err)
	assert.True(t, kwh("6").Equal(res.Covered))
	assert.True(t, res.Shortfall.IsZero())
	assert.Equal(t, 2, res.RecordsTouched)

	all, err := svc.Donations(ctx, admin, donor)
	require.NoError(t, err)
	require.Len(t, all, 3)

	var used, unused []string

	for _, d := range all {
		if d.IsUsed {
			used = append(used, d.KwhAmount.String())
			assert.Equal(t, o.ID, *d.UsedInOfferID)

			continue
		}

		unused = append(unused, d.KwhAmount.String())
		assert.Equal(t, second.ID, d.ID)
	}

	assert.ElementsMatch(t, []string{"5", "1"}, used)
	assert.Equal(t, []string{"2"}, unused)

	for _, d := range all {
		if d.IsUsed && d.KwhAmount.Equal(kwh("1")) {
			assert.Equal(t, second.CreatedAt, d.CreatedAt)
		}
	}

	assert.True(t, kwh("2").Equal(repo.balance(admin)))
}

func TestService_ConsumeIsIdempotentPerOffer(t *testing.T) {
	ctx := context.Background()
	repo := newMemLedger()
	svc := ledger.NewService(repo, nopNotifier{}, zap.NewNop())

	_, err := svc.Donate(ctx, donor, admin, kwh("10"))
	require.NoError(t, err)

	o := adminOffer("4")

	first, err := svc.ConsumeForOffer(ctx, o)
	require.NoError(t, err)
	assert.False(t, first.AlreadySettled)

	again, err := svc.ConsumeForOffer(ctx, o)
	require.NoError(t, err)
	assert.True(t, again.AlreadySettled)
	assert.True(t, kwh("4").Equal(again.Covered))

	available, err := svc.Available(ctx, admin, donor)
	require.NoError(t, err)
	assert.True(t, kwh("6").Equal(available))
	assert.True(t, kwh("6").Equal(repo.balance(admin)))
}

func TestService_ConsumeReportsShortfall(t *testing.T) {
	tests := []struct {
		name          string
		allowNegative bool
		wantBalance   string
	}{
		{name: "ClampsAtZero", wantBalance: "0"},
		{name: "AllowsNegative", allowNegative: true, wantBalance: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newMemLedger()
			svc := ledger.NewService(repo, nopNotifier{}, zap.NewNop(), ledger.WithNegativeBalance(tt.allowNegative))

			_, err := svc.Donate(ctx, donor, admin, kwh("2"))
			require.NoError(t, err)

			// The admin spent part of the balance elsewhere.
			repo.balances[admin] = kwh("1")

			res, err := svc.ConsumeForOffer(ctx, adminOffer("7.5"))
			require.NoError(t, err)
			assert.True(t, kwh("2").Equal(res.Covered))
			assert.True(t, kwh("5.5").Equal(res.Shortfall))
			assert.True(t, kwh(tt.wantBalance).Equal(repo.balance(admin)), repo.balance(admin).String())
		})
	}
}

func TestService_DonationsAreConserved(t *testing.T) {
	ctx := context.Background()
	repo := newMemLedger()
	svc := ledger.NewService(repo, nopNotifier{}, zap.NewNop())

	donated := decimal.Zero

	check := func(step string) {
		t.Helper()

		unused, err := svc.Available(ctx, admin, donor)
		require.NoError(t, err)

		used, err := svc.Used(ctx, admin, donor)
		require.NoError(t, err)

		assert.True(t, donated.Equal(unused.Add(used)), "%s: %s + %s != %s", step, unused, used, donated)
	}

	ops := []struct {
		donate  string
		consume string
	}{
		{donate: "5"},
		{donate: "3.25"},
		{consume: "6"},
		{consume: "0.5"},
		{donate: "1.125"},
		{consume: "10"},
		{donate: "4"},
		{consume: "2.375"},
		{consume: "1.625"},
	}

	for i, op := range ops {
		if op.donate != "" {
			_, err := svc.Donate(ctx, donor, admin, kwh(op.donate))
			require.NoError(t, err)

			donated = donated.Add(kwh(op.donate))
		} else {
			_, err := svc.ConsumeForOffer(ctx, adminOffer(op.consume))
			require.NoError(t, err)
		}

		check(ops[i].donate + ops[i].consume)
	}
}

func TestService_ConcurrentConsumersNeverOverspend(t *testing.T) {
	ctx := context.Background()
	repo := newMemLedger()
	svc := ledger.NewService(repo, nopNotifier{}, zap.NewNop())

	_, err := svc.Donate(ctx, donor, admin, kwh("10"))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		covered = decimal.Zero
	)

	for range 6 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			res, err := svc.ConsumeForOffer(ctx, adminOffer("3"))
			if err != nil {
				t.Errorf("consume: %v", err)
				return
			}

			mu.Lock()
			covered = covered.Add(res.Covered)
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.True(t, kwh("10").Equal(covered), covered.String())

	available, err := svc.Available(ctx, admin, donor)
	require.NoError(t, err)
	assert.True(t, available.IsZero())
}

func TestService_Donate(t *testing.T) {
	tests := []struct {
		name    string
		donor   int64
		admin   int64
		kwh     string
		wantErr error
	}{
		{name: "NonPositive", donor: donor, admin: admin, kwh: "0", wantErr: apperr.ErrValidation},
		{name: "TooPrecise", donor: donor, admin: admin, kwh: "0.0004", wantErr: apperr.ErrValidation},
		{name: "SelfDonation", donor: admin, admin: admin, kwh: "1", wantErr: apperr.ErrValidation},
		{name: "MissingAdmin", donor: donor, kwh: "1", wantErr: apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := ledger.NewService(ledger.NewMockRepository(ctrl), notify.NewMockNotifier(ctrl), zap.NewNop())

			_, err := svc.Donate(context.Background(), tt.donor, tt.admin, kwh(tt.kwh))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("NotifiesAdmin", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().CreateDonation(gomock.Any(), gomock.Any()).Return(nil)

		n := notify.NewMockNotifier(ctrl)
		n.EXPECT().Notify(gomock.Any(), admin, gomock.Any(), gomock.Nil()).Return(errors.New("gateway down"))

		d, err := ledger.NewService(repo, n, zap.NewNop()).Donate(context.Background(), donor, admin, kwh("2.5"))
		require.NoError(t, err)
		assert.True(t, kwh("2.5").Equal(d.KwhAmount))
	})
}

func TestService_Cover(t *testing.T) {
	ctx := context.Background()
	repo := newMemLedger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := ledger.NewService(repo, nopNotifier{}, zap.NewNop()).Donate(ctx, donor, admin, kwh("2"))
	require.NoError(t, err)

	// Cover runs before the completion commits, so it must not notify.
	svc := ledger.NewService(repo, notify.NewMockNotifier(ctrl), zap.NewNop())

	o := adminOffer("3")

	text, err := svc.Cover(ctx, o)
	require.NoError(t, err)
	assert.Contains(t, text, o.ID.String())
	assert.Contains(t, text, "Mancano")

	again, err := svc.Cover(ctx, o)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestService_Settle(t *testing.T) {
	t.Run("RequiresCompletedOffer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		o := adminOffer("3")
		o.Status = offer.StatusPaymentSent

		err := ledger.NewService(ledger.NewMockRepository(ctrl), notify.NewMockNotifier(ctrl), zap.NewNop()).Settle(context.Background(), o)
		assert.ErrorIs(t, err, apperr.ErrStateConflict)
	})

	t.Run("RollsBackOnFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		o := adminOffer("3")
		d := &ledger.Donation{ID: uuid.New(), AdminID: admin, DonorID: donor, KwhAmount: kwh("5")}

		repo := ledger.NewMockRepository(ctrl)
		ltx := ledger.NewMockConsumeTx(ctrl)

		repo.EXPECT().BeginConsume(gomock.Any(), admin, donor).Return(ltx, nil)
		ltx.EXPECT().UsedForOffer(gomock.Any(), o.ID).Return(decimal.Zero, 0, nil)
		ltx.EXPECT().ListUnused(gomock.Any(), admin, donor).Return([]*ledger.Donation{d}, nil)
		ltx.EXPECT().Shrink(gomock.Any(), d.ID, gomock.Any()).Return(nil)
		ltx.EXPECT().InsertDonation(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
		ltx.EXPECT().Rollback().Return(nil)

		err := ledger.NewService(repo, notify.NewMockNotifier(ctrl), zap.NewNop()).Settle(context.Background(), o)
		assert.Error(t, err)
	})
}
