package reviews

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

type userService struct {
	user    pgtype.UUID
	service pgtype.UUID
}

// memStore is an in-memory Store and Reader. InTx holds a single mutex for the
// whole unit, which models the service row lock, and restores a snapshot when
// the unit fails.
type memStore struct {
	mu           sync.Mutex
	services     map[pgtype.UUID]dbgen.Service
	destinations map[pgtype.UUID]dbgen.Destination
	reviews      map[pgtype.UUID]dbgen.Review
	responses    map[pgtype.UUID]dbgen.ReviewResponse
	completed    map[userService]bool
	clock        time.Time

	failServiceAggregate     error
	failDestinationAggregate error
	// skipActiveLookup hides existing reviews from GetActiveReviewID so the
	// unique index is the only guard left.
	skipActiveLookup bool
	commits          int
	rollbacks        int
}

func newMemStore() *memStore {
	return &memStore{
		services:     map[pgtype.UUID]dbgen.Service{},
		destinations: map[pgtype.UUID]dbgen.Destination{},
		reviews:      map[pgtype.UUID]dbgen.Review{},
		responses:    map[pgtype.UUID]dbgen.ReviewResponse{},
		completed:    map[userService]bool{},
		clock:        time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func (m *memStore) addDestination() pgtype.UUID {
	id := newUUID()
	m.destinations[id] = dbgen.Destination{ID: id, Name: "Destino", IsActive: true, AverageScore: decimal.Zero}
	return id
}

func (m *memStore) addService(destinationID, providerID pgtype.UUID) pgtype.UUID {
	id := newUUID()
	m.services[id] = dbgen.Service{
		ID:            id,
		DestinationID: destinationID,
		ProviderID:    providerID,
		Name:          "Servicio",
		Kind:          "tour",
		IsActive:      true,
		IsAvailable:   true,
		AverageScore:  decimal.Zero,
	}
	return id
}

func (m *memStore) complete(userID, serviceID pgtype.UUID) {
	m.completed[userService{userID, serviceID}] = true
}

func (m *memStore) service(id pgtype.UUID) dbgen.Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.services[id]
}

func (m *memStore) destination(id pgtype.UUID) dbgen.Destination {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destinations[id]
}

func (m *memStore) reviewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

type memSnapshot struct {
	services     map[pgtype.UUID]dbgen.Service
	destinations map[pgtype.UUID]dbgen.Destination
	reviews      map[pgtype.UUID]dbgen.Review
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) InTx(ctx context.Context, fn func(q Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := memSnapshot{
		services:     cloneMap(m.services),
		destinations: cloneMap(m.destinations),
		reviews:      cloneMap(m.reviews),
	}
	if err := fn(memTx{m}); err != nil {
		m.services, m.destinations, m.reviews = snap.services, snap.destinations, snap.reviews
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func (m *memStore) tick() pgtype.Timestamptz {
	m.clock = m.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: m.clock, Valid: true}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: db.CodeUniqueViolation, ConstraintName: activeReviewConstraint}
}

func (m *memStore) activeConflict(r dbgen.Review) bool {
	for _, other := range m.reviews {
		if other.ID != r.ID && other.IsActive && other.UserID == r.UserID && other.ServiceID == r.ServiceID {
			return true
		}
	}
	return false
}

// memTx implements Querier against a store whose mutex is already held.
type memTx struct {
	m *memStore
}

func (t memTx) LockServiceForReview(_ context.Context, id pgtype.UUID) (dbgen.LockServiceForReviewRow, error) {
	svc, ok := t.m.services[id]
	if !ok {
		return dbgen.LockServiceForReviewRow{}, pgx.ErrNoRows
	}
	return dbgen.LockServiceForReviewRow{ID: svc.ID, DestinationID: svc.DestinationID, ProviderID: svc.ProviderID, IsActive: svc.IsActive}, nil
}

func (t memTx) LockDestination(_ context.Context, id pgtype.UUID) (pgtype.UUID, error) {
	if _, ok := t.m.destinations[id]; !ok {
		return pgtype.UUID{}, pgx.ErrNoRows
	}
	return id, nil
}

func (t memTx) HasCompletedBooking(_ context.Context, arg dbgen.HasCompletedBookingParams) (bool, error) {
	return t.m.completed[userService{arg.UserID, arg.ServiceID}], nil
}

func (t memTx) GetActiveReviewID(_ context.Context, arg dbgen.GetActiveReviewIDParams) (pgtype.UUID, error) {
	if t.m.skipActiveLookup {
		return pgtype.UUID{}, pgx.ErrNoRows
	}
	for _, r := range t.m.reviews {
		if r.IsActive && r.UserID == arg.UserID && r.ServiceID == arg.ServiceID {
			return r.ID, nil
		}
	}
	return pgtype.UUID{}, pgx.ErrNoRows
}

func (t memTx) CreateReview(_ context.Context, arg dbgen.CreateReviewParams) (dbgen.Review, error) {
	now := t.m.tick()
	r := dbgen.Review{
		ID:          newUUID(),
		UserID:      arg.UserID,
		ServiceID:   arg.ServiceID,
		Score:       arg.Score,
		Comment:     arg.Comment,
		IsActive:    arg.IsActive,
		IsModerated: arg.IsModerated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.IsActive && t.m.activeConflict(r) {
		return dbgen.Review{}, uniqueViolation()
	}
	t.m.reviews[r.ID] = r
	return r, nil
}

func (t memTx) GetReviewForUpdate(_ context.Context, id pgtype.UUID) (dbgen.Review, error) {
	r, ok := t.m.reviews[id]
	if !ok {
		return dbgen.Review{}, pgx.ErrNoRows
	}
	return r, nil
}

func (t memTx) UpdateReviewContent(_ context.Context, arg dbgen.UpdateReviewContentParams) (dbgen.Review, error) {
	r, ok := t.m.reviews[arg.ID]
	if !ok {
		return dbgen.Review{}, pgx.ErrNoRows
	}
	r.Score, r.Comment, r.IsActive, r.IsModerated = arg.Score, arg.Comment, arg.IsActive, arg.IsModerated
	r.UpdatedAt = t.m.tick()
	t.m.reviews[r.ID] = r
	return r, nil
}

func (t memTx) SetReviewState(_ context.Context, arg dbgen.SetReviewStateParams) (dbgen.Review, error) {
	r, ok := t.m.reviews[arg.ID]
	if !ok {
		return dbgen.Review{}, pgx.ErrNoRows
	}
	r.IsActive, r.IsModerated = arg.IsActive, arg.IsModerated
	if r.IsActive && t.m.activeConflict(r) {
		return dbgen.Review{}, uniqueViolation()
	}
	r.UpdatedAt = t.m.tick()
	t.m.reviews[r.ID] = r
	return r, nil
}

func (t memTx) ServiceReviewStats(_ context.Context, serviceID pgtype.UUID) (dbgen.ServiceReviewStatsRow, error) {
	var row dbgen.ServiceReviewStatsRow
	for _, r := range t.m.reviews {
		if r.IsActive && r.ServiceID == serviceID {
			row.ReviewCount++
			row.ScoreSum += int64(r.Score)
		}
	}
	return row, nil
}

func (t memTx) DestinationReviewStats(_ context.Context, destinationID pgtype.UUID) (dbgen.DestinationReviewStatsRow, error) {
	var row dbgen.DestinationReviewStatsRow
	for _, r := range t.m.reviews {
		if !r.IsActive {
			continue
		}
		if svc, ok := t.m.services[r.ServiceID]; ok && svc.DestinationID == destinationID {
			row.ReviewCount++
			row.ScoreSum += int64(r.Score)
		}
	}
	return row, nil
}

func (t memTx) UpdateServiceAggregate(_ context.Context, arg dbgen.UpdateServiceAggregateParams) (int64, error) {
	if t.m.failServiceAggregate != nil {
		return 0, t.m.failServiceAggregate
	}
	svc, ok := t.m.services[arg.ID]
	if !ok {
		return 0, nil
	}
	svc.AverageScore, svc.ReviewCount = arg.AverageScore, arg.ReviewCount
	t.m.services[arg.ID] = svc
	return 1, nil
}

func (t memTx) UpdateDestinationAggregate(_ context.Context, arg dbgen.UpdateDestinationAggregateParams) (int64, error) {
	if t.m.failDestinationAggregate != nil {
		return 0, t.m.failDestinationAggregate
	}
	dest, ok := t.m.destinations[arg.ID]
	if !ok {
		return 0, nil
	}
	dest.AverageScore, dest.ReviewCount = arg.AverageScore, arg.ReviewCount
	t.m.destinations[arg.ID] = dest
	return 1, nil
}

func (m *memStore) GetReview(_ context.Context, id pgtype.UUID) (dbgen.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return dbgen.Review{}, pgx.ErrNoRows
	}
	return r, nil
}

func (m *memStore) GetService(_ context.Context, id pgtype.UUID) (dbgen.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.services[id]
	if !ok {
		return dbgen.Service{}, pgx.ErrNoRows
	}
	return svc, nil
}

func (m *memStore) sorted(keep func(dbgen.Review) bool) []dbgen.Review {
	out := make([]dbgen.Review, 0)
	for _, r := range m.reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out
}

func paginate(rows []dbgen.Review, limit, offset int32) []dbgen.Review {
	if int(offset) >= len(rows) {
		return []dbgen.Review{}
	}
	end := int(offset + limit)
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (m *memStore) ListServiceReviews(_ context.Context, arg dbgen.ListServiceReviewsParams) ([]dbgen.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sorted(func(r dbgen.Review) bool { return r.IsActive && r.ServiceID == arg.ServiceID })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *memStore) CountServiceReviews(_ context.Context, serviceID pgtype.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sorted(func(r dbgen.Review) bool { return r.IsActive && r.ServiceID == serviceID }))), nil
}

func (m *memStore) ListUserReviews(_ context.Context, arg dbgen.ListUserReviewsParams) ([]dbgen.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sorted(func(r dbgen.Review) bool { return r.UserID == arg.UserID })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *memStore) ListModerationQueue(_ context.Context, arg dbgen.ListModerationQueueParams) ([]dbgen.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sorted(func(r dbgen.Review) bool {
		switch arg.Filter {
		case FilterPending:
			return r.IsModerated && !r.IsActive
		case FilterApproved:
			return r.IsModerated && r.IsActive
		default:
			return r.IsModerated || !r.IsActive
		}
	})
	return paginate(rows, arg.PageLimit, arg.PageOffset), nil
}

func (m *memStore) ScoreHistogram(_ context.Context, serviceID pgtype.UUID) ([]dbgen.ScoreHistogramRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[int32]int64{}
	for _, r := range m.reviews {
		if r.IsActive && r.ServiceID == serviceID {
			counts[r.Score]++
		}
	}
	rows := make([]dbgen.ScoreHistogramRow, 0, len(counts))
	for score, total := range counts {
		rows = append(rows, dbgen.ScoreHistogramRow{Score: score, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Score < rows[j].Score })
	return rows, nil
}

func (m *memStore) CreateReviewResponse(_ context.Context, arg dbgen.CreateReviewResponseParams) (dbgen.ReviewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, resp := range m.responses {
		if resp.ReviewID == arg.ReviewID {
			return dbgen.ReviewResponse{}, &pgconn.PgError{Code: db.CodeUniqueViolation, ConstraintName: responseReviewConstraint}
		}
	}
	now := m.tick()
	resp := dbgen.ReviewResponse{ID: newUUID(), ReviewID: arg.ReviewID, ProviderID: arg.ProviderID, Body: arg.Body, CreatedAt: now, UpdatedAt: now}
	m.responses[resp.ID] = resp
	return resp, nil
}

func (m *memStore) GetReviewResponse(_ context.Context, id pgtype.UUID) (dbgen.ReviewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp, ok := m.responses[id]
	if !ok {
		return dbgen.ReviewResponse{}, pgx.ErrNoRows
	}
	return resp, nil
}

func (m *memStore) GetReviewResponseByReview(_ context.Context, reviewID pgtype.UUID) (dbgen.ReviewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, resp := range m.responses {
		if resp.ReviewID == reviewID {
			return resp, nil
		}
	}
	return dbgen.ReviewResponse{}, pgx.ErrNoRows
}

func (m *memStore) UpdateReviewResponse(_ context.Context, arg dbgen.UpdateReviewResponseParams) (dbgen.ReviewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp, ok := m.responses[arg.ID]
	if !ok {
		return dbgen.ReviewResponse{}, pgx.ErrNoRows
	}
	resp.Body = arg.Body
	resp.UpdatedAt = m.tick()
	m.responses[arg.ID] = resp
	return resp, nil
}

var (
	_ Store  = (*memStore)(nil)
	_ Reader = (*memStore)(nil)
)
