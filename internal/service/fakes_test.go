package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/geoquery"
	"geo-region-api/internal/txn"
)

type memUsers struct {
	mu      sync.Mutex
	rows    map[string]domain.User
	seq     int
	err     error
	creates int
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]domain.User{}} }

func (m *memUsers) Create(_ context.Context, _ *txn.Session, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.User{}, m.err
	}
	for _, r := range m.rows {
		if r.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists
		}
	}
	m.seq++
	m.creates++
	u.ID = fmt.Sprintf("u%d", m.seq)
	u.CreatedAt = time.Unix(int64(m.seq), 0)
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) sorted() []domain.User {
	out := make([]domain.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (m *memUsers) Find(_ context.Context, _ *txn.Session, offset, limit int) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	all := m.sorted()
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *memUsers) FindByID(_ context.Context, _ *txn.Session, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, _ *txn.Session, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Search(_ context.Context, _ *txn.Session, q string, offset, limit int) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []domain.User
	for _, u := range m.sorted() {
		if q == "" || u.Name == q || u.Email == q {
			hits = append(hits, u)
		}
	}
	return page(hits, offset, limit), int64(len(hits)), nil
}

func (m *memUsers) Update(_ context.Context, _ *txn.Session, id string, p domain.UserPatch) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Coordinates != nil {
		c := *p.Coordinates
		u.Coordinates = &c
	}
	m.rows[id] = u
	return &u, nil
}

func (m *memUsers) Delete(_ context.Context, _ *txn.Session, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

type memRegions struct {
	mu         sync.Mutex
	rows       map[string]domain.Region
	seq        int
	lastFilter *geoquery.Filter
	lastOffset int
	lastLimit  int
	noUpdate   bool
}

func newMemRegions() *memRegions { return &memRegions{rows: map[string]domain.Region{}} }

func (m *memRegions) Create(_ context.Context, _ *txn.Session, r domain.Region) (domain.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = fmt.Sprintf("r%d", m.seq)
	r.CreatedAt = time.Unix(int64(m.seq), 0)
	m.rows[r.ID] = r
	return r, nil
}

func (m *memRegions) all() []domain.Region {
	out := make([]domain.Region, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memRegions) Find(_ context.Context, _ *txn.Session, offset, limit int) ([]domain.Region, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.all()
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *memRegions) FindByID(_ context.Context, _ *txn.Session, id string) (*domain.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// FindByFilter records the filter; spatial evaluation belongs to the database.
func (m *memRegions) FindByFilter(_ context.Context, _ *txn.Session, f geoquery.Filter, offset, limit int) ([]domain.Region, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter, m.lastOffset, m.lastLimit = &f, offset, limit
	all := m.all()
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *memRegions) FindOrphans(_ context.Context, _ *txn.Session, offset, limit int) ([]domain.Region, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.all()
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *memRegions) Update(_ context.Context, _ *txn.Session, id string, p domain.RegionPatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || m.noUpdate {
		return false, nil
	}
	if p.Name != nil && *p.Name != "" {
		r.Name = *p.Name
	}
	if p.Geometry != nil {
		r.Geometry = *p.Geometry
	}
	if p.OwnerID != nil && *p.OwnerID != "" {
		r.OwnerID = *p.OwnerID
	}
	m.rows[id] = r
	return true, nil
}

func (m *memRegions) Delete(_ context.Context, _ *txn.Session, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

type stubGeo struct {
	forward  map[string]domain.Coordinates
	reverse  string
	err      error
	forwards int
	reverses int
}

func (g *stubGeo) CoordinatesFromAddress(_ context.Context, address string) (domain.Coordinates, error) {
	g.forwards++
	if g.err != nil {
		return domain.Coordinates{}, g.err
	}
	c, ok := g.forward[address]
	if !ok {
		return domain.Coordinates{}, domain.NewError(domain.CodeAddressNotFound, "Address not found.")
	}
	return c, nil
}

func (g *stubGeo) AddressFromCoordinates(context.Context, domain.Coordinates) (string, error) {
	g.reverses++
	if g.err != nil {
		return "", g.err
	}
	if g.reverse == "" {
		return "", domain.NewError(domain.CodeCoordinatesNotFound, "Coordinates not found.")
	}
	return g.reverse, nil
}

var newYork = domain.Coordinates{Lat: 40.7128, Lng: -74.006}

var park = domain.Polygon{
	Type: domain.GeometryPolygon,
	Coordinates: [][][]float64{{
		{-74.01, 40.71}, {-74.0, 40.71}, {-74.0, 40.72}, {-74.01, 40.71},
	}},
}
