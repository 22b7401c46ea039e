package linetx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvaldez/garage/internal/linetx"
)

// fakeStore simulates the catalog table shared by concurrent transactions.
// Committed stock lives in stock; each open fakeTx stages its decrements
// privately and only applies them on Commit.
type fakeStore struct {
	stock map[uuid.UUID]int64
}

func newFakeStore(stock map[uuid.UUID]int64) *fakeStore {
	s := &fakeStore{stock: make(map[uuid.UUID]int64, len(stock))}
	for id, qty := range stock {
		s.stock[id] = qty
	}

	return s
}

func (s *fakeStore) begin() *fakeTx {
	return &fakeTx{store: s, staged: make(map[uuid.UUID]int64)}
}

type fakeTx struct {
	store  *fakeStore
	staged map[uuid.UUID]int64 // pending decrements, invisible until commit

	headerStaged bool
	lines        []linetx.Line
	committed    bool
	rolledBack   bool
	finalized    bool

	failHeader   error
	failStage    error
	failFinalize error
	failCommit   error
}

func (t *fakeTx) StageHeader(ctx context.Context) error {
	if t.failHeader != nil {
		return t.failHeader
	}

	t.headerStaged = true

	return nil
}

func (t *fakeTx) LookupItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	qty, ok := t.store.stock[itemID]
	if !ok {
		return 0, linetx.ErrItemNotFound
	}

	return qty - t.staged[itemID], nil
}

func (t *fakeTx) StageLine(ctx context.Context, ln linetx.Line) error {
	if t.failStage != nil {
		return t.failStage
	}

	t.lines = append(t.lines, ln)

	return nil
}

func (t *fakeTx) DecrementStock(ctx context.Context, itemID uuid.UUID, qty int64) error {
	t.staged[itemID] += qty
	return nil
}

func (t *fakeTx) Finalize(ctx context.Context) error {
	if t.failFinalize != nil {
		return t.failFinalize
	}

	t.finalized = true

	return nil
}

func (t *fakeTx) Commit() error {
	if t.failCommit != nil {
		return t.failCommit
	}

	for id, qty := range t.staged {
		t.store.stock[id] -= qty
	}

	t.committed = true

	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

var stocked = linetx.Rules{StockTracked: true}

func TestCreate_Success(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	store := newFakeStore(map[uuid.UUID]int64{p1: 10, p2: 4})
	tx := store.begin()

	lines := []linetx.Line{
		{ItemID: p1, Quantity: 3},
		{ItemID: p2, Quantity: 4},
	}

	err := linetx.Create(context.Background(), tx, stocked, lines)
	require.NoError(t, err)

	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.True(t, tx.finalized)
	assert.Equal(t, lines, tx.lines)

	// Conservation: each row decreased by exactly the requested quantity.
	assert.Equal(t, int64(7), store.stock[p1])
	assert.Equal(t, int64(0), store.stock[p2])
}

func TestCreate_EmptyLines(t *testing.T) {
	store := newFakeStore(nil)
	tx := store.begin()

	err := linetx.Create(context.Background(), tx, stocked, nil)
	require.NoError(t, err)

	assert.True(t, tx.headerStaged)
	assert.True(t, tx.committed)
	assert.Empty(t, tx.lines)
}

func TestCreate_Atomicity(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	missing := uuid.New()

	type testCase struct {
		name     string
		lines    []linetx.Line
		wantErr  error
		wantLine int
	}

	tests := []testCase{
		{
			name: "NotFoundAborts",
			lines: []linetx.Line{
				{ItemID: p1, Quantity: 2},
				{ItemID: missing, Quantity: 1},
			},
			wantErr:  linetx.ErrItemNotFound,
			wantLine: 2,
		},
		{
			name: "InsufficientStockAborts",
			lines: []linetx.Line{
				{ItemID: p1, Quantity: 2},
				{ItemID: p2, Quantity: 5},
			},
			wantErr:  linetx.ErrInsufficientStock,
			wantLine: 2,
		},
		{
			name: "ZeroQuantityAborts",
			lines: []linetx.Line{
				{ItemID: p1, Quantity: 0},
			},
			wantErr:  linetx.ErrInvalidLine,
			wantLine: 1,
		},
		{
			name: "NilItemAborts",
			lines: []linetx.Line{
				{ItemID: uuid.Nil, Quantity: 1},
			},
			wantErr:  linetx.ErrInvalidLine,
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(map[uuid.UUID]int64{p1: 10, p2: 4})
			tx := store.begin()

			err := linetx.Create(context.Background(), tx, stocked, tt.lines)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var lerr *linetx.LineError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tt.wantLine, lerr.Number)

			assert.True(t, tx.rolledBack)
			assert.False(t, tx.committed)

			// Stock is untouched after a failed call.
			assert.Equal(t, int64(10), store.stock[p1])
			assert.Equal(t, int64(4), store.stock[p2])
		})
	}
}

// Lines are applied in caller order and the first bad line aborts, so a
// later valid line is never staged.
func TestCreate_FailFast(t *testing.T) {
	p1 := uuid.New()
	store := newFakeStore(map[uuid.UUID]int64{p1: 10})
	tx := store.begin()

	lines := []linetx.Line{
		{ItemID: p1, Quantity: 1},
		{ItemID: uuid.New(), Quantity: 1}, // dangling
		{ItemID: p1, Quantity: 1},
	}

	err := linetx.Create(context.Background(), tx, stocked, lines)
	require.ErrorIs(t, err, linetx.ErrItemNotFound)

	assert.Len(t, tx.lines, 1)
	assert.Equal(t, int64(10), store.stock[p1])
}

// A sale of the same item twice sees its own staged decrement: 3+3 of 5
// fails on the second line even though the committed stock is still 5.
func TestCreate_ObservesOwnDecrements(t *testing.T) {
	p1 := uuid.New()
	store := newFakeStore(map[uuid.UUID]int64{p1: 5})
	tx := store.begin()

	lines := []linetx.Line{
		{ItemID: p1, Quantity: 3},
		{ItemID: p1, Quantity: 3},
	}

	err := linetx.Create(context.Background(), tx, stocked, lines)
	require.ErrorIs(t, err, linetx.ErrInsufficientStock)

	var lerr *linetx.LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 2, lerr.Number)
	assert.Equal(t, int64(2), lerr.Available)

	assert.Equal(t, int64(5), store.stock[p1])
}

// Two calls contending for the remaining stock of one item: whichever
// commits first wins and the second legitimately fails, leaving stock at
// the winner's post-decrement value. Mirrors the serialized interleaving
// the row lock enforces.
func TestCreate_ContendingCalls(t *testing.T) {
	p1 := uuid.New()
	store := newFakeStore(map[uuid.UUID]int64{p1: 5})

	first := store.begin()
	err := linetx.Create(context.Background(), first, stocked, []linetx.Line{{ItemID: p1, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), store.stock[p1])

	second := store.begin()
	err = linetx.Create(context.Background(), second, stocked, []linetx.Line{{ItemID: p1, Quantity: 3}})
	require.ErrorIs(t, err, linetx.ErrInsufficientStock)

	var lerr *linetx.LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, int64(3), lerr.Requested)
	assert.Equal(t, int64(2), lerr.Available)

	// The failed call leaves the winner's stock unchanged.
	assert.Equal(t, int64(2), store.stock[p1])
}

func TestCreate_PricedVariant(t *testing.T) {
	s1 := uuid.New()
	store := newFakeStore(map[uuid.UUID]int64{s1: 0})
	tx := store.begin()

	lines := []linetx.Line{
		{ItemID: s1, Price: 4500},
		{ItemID: s1, Price: 0},
	}

	err := linetx.Create(context.Background(), tx, linetx.Rules{}, lines)
	require.NoError(t, err)

	assert.True(t, tx.committed)
	assert.Len(t, tx.lines, 2)

	// Priced lines never touch stock.
	assert.Empty(t, tx.staged)
	assert.Equal(t, int64(0), store.stock[s1])
}

func TestCreate_PricedVariant_NegativePrice(t *testing.T) {
	s1 := uuid.New()
	store := newFakeStore(map[uuid.UUID]int64{s1: 0})
	tx := store.begin()

	err := linetx.Create(context.Background(), tx, linetx.Rules{}, []linetx.Line{{ItemID: s1, Price: -1}})
	require.ErrorIs(t, err, linetx.ErrInvalidLine)
	assert.True(t, tx.rolledBack)
}

func TestCreate_StorageFailures(t *testing.T) {
	p1 := uuid.New()
	dbErr := errors.New("connection reset")

	type testCase struct {
		name  string
		setup func(tx *fakeTx)
	}

	tests := []testCase{
		{name: "Header", setup: func(tx *fakeTx) { tx.failHeader = dbErr }},
		{name: "Line", setup: func(tx *fakeTx) { tx.failStage = dbErr }},
		{name: "Finalize", setup: func(tx *fakeTx) { tx.failFinalize = dbErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(map[uuid.UUID]int64{p1: 5})
			tx := store.begin()
			tt.setup(tx)

			err := linetx.Create(context.Background(), tx, stocked, []linetx.Line{{ItemID: p1, Quantity: 1}})
			require.ErrorIs(t, err, dbErr)

			assert.True(t, tx.rolledBack)
			assert.Equal(t, int64(5), store.stock[p1])
		})
	}
}

func TestLineError_Message(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	notFound := &linetx.LineError{Number: 2, ItemID: id, Requested: 1, Err: linetx.ErrItemNotFound}
	assert.Contains(t, notFound.Error(), "line 2")
	assert.Contains(t, notFound.Error(), id.String())

	short := &linetx.LineError{Number: 1, ItemID: id, Requested: 3, Available: 2, Err: linetx.ErrInsufficientStock}
	assert.Contains(t, short.Error(), "3 requested")
	assert.Contains(t, short.Error(), "2 in stock")
}
