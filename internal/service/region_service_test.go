package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/geoquery"
	"geo-region-api/internal/txn"
	"geo-region-api/internal/txn/txntest"
)

type regionFixture struct {
	svc     *RegionService
	users   *UserService
	regions *memRegions
	tx      *txntest.Beginner
}

func newRegionFixture() regionFixture {
	store := newMemUsers()
	geo := &stubGeo{forward: map[string]domain.Coordinates{"New York": newYork}}
	f := regionFixture{regions: newMemRegions(), tx: &txntest.Beginner{}}
	scope := txn.NewScope(f.tx, nil, txn.Options{})
	f.users = NewUserService(store, geo, scope, nil, nil)
	f.svc = NewRegionService(f.regions, store, geoquery.Builder{Dialect: geoquery.Postgres, Column: "regions.geometry"}, scope, nil)
	return f
}

func TestRegionScenario(t *testing.T) {
	f := newRegionFixture()
	ctx := context.Background()

	ana := f.users.Create(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com", Address: "New York"})
	require.True(t, ana.Success)
	assert.Equal(t, "New York", ana.Data.Address)
	assert.Equal(t, newYork, *ana.Data.Coordinates)

	res := f.svc.Create(ctx, domain.NewRegion{Name: "Park", Geometry: park, OwnerID: ana.Data.ID})
	require.True(t, res.Success, "%+v", res.Error)
	assert.Equal(t, ana.Data.ID, res.Data.OwnerID)
	require.NotNil(t, res.Data.Owner)
	assert.Equal(t, "ana@x.com", res.Data.Owner.Email)

	dup := f.users.Create(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com", Address: "New York"})
	assert.Equal(t, domain.CodeEmailAlreadyExists, dup.Code())
}

func TestCreateRegionUnknownOwner(t *testing.T) {
	f := newRegionFixture()
	res := f.svc.Create(context.Background(), domain.NewRegion{Name: "Park", Geometry: park, OwnerID: "nobody"})
	assert.Equal(t, domain.CodeUserNotFound, res.Code())
	assert.Equal(t, "The provided user id does not exist", res.Error.Message)
	assert.Empty(t, f.regions.rows)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestUpdateRegion(t *testing.T) {
	f := newRegionFixture()
	ctx := context.Background()
	ana := f.users.Create(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com", Address: "New York"}).Data
	bo := f.users.Create(ctx, domain.NewUser{Name: "Bo", Email: "bo@x.com", Address: "New York"}).Data
	r := f.svc.Create(ctx, domain.NewRegion{Name: "Park", Geometry: park, OwnerID: ana.ID}).Data

	name := "Central Park"
	res := f.svc.Update(ctx, r.ID, domain.RegionPatch{Name: &name})
	require.True(t, res.Success)
	assert.Equal(t, "Central Park", res.Data.Name)
	assert.Equal(t, ana.ID, res.Data.OwnerID, "owner kept when omitted")
	assert.Equal(t, park, res.Data.Geometry)

	res = f.svc.Update(ctx, r.ID, domain.RegionPatch{OwnerID: &bo.ID})
	require.True(t, res.Success)
	assert.Equal(t, bo.ID, res.Data.OwnerID)

	ghost := "ghost"
	res = f.svc.Update(ctx, r.ID, domain.RegionPatch{OwnerID: &ghost})
	assert.Equal(t, domain.CodeUserNotFound, res.Code())
	assert.Equal(t, bo.ID, f.regions.rows[r.ID].OwnerID)

	res = f.svc.Update(ctx, "missing", domain.RegionPatch{Name: &name})
	assert.Equal(t, domain.CodeRegionNotFound, res.Code())

	f.regions.noUpdate = true
	res = f.svc.Update(ctx, r.ID, domain.RegionPatch{Name: &name})
	assert.Equal(t, domain.CodeUpdateRegion, res.Code())
}

func TestDeleteRegion(t *testing.T) {
	f := newRegionFixture()
	ctx := context.Background()
	ana := f.users.Create(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com", Address: "New York"}).Data
	r := f.svc.Create(ctx, domain.NewRegion{Name: "Park", Geometry: park, OwnerID: ana.ID}).Data

	assert.True(t, f.svc.Delete(ctx, r.ID).Success)
	assert.Equal(t, domain.CodeRegionNotFound, f.svc.Get(ctx, r.ID).Code())
	assert.Equal(t, domain.CodeRegionNotFound, f.svc.Delete(ctx, r.ID).Code())
}

func TestDeletingOwnerDoesNotCascade(t *testing.T) {
	f := newRegionFixture()
	ctx := context.Background()
	ana := f.users.Create(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com", Address: "New York"}).Data
	r := f.svc.Create(ctx, domain.NewRegion{Name: "Park", Geometry: park, OwnerID: ana.ID}).Data

	require.True(t, f.users.Delete(ctx, ana.ID).Success)
	got := f.svc.Get(ctx, r.ID)
	require.True(t, got.Success)
	assert.Equal(t, ana.ID, got.Data.OwnerID)
}

func TestSpatialQueries(t *testing.T) {
	f := newRegionFixture()
	ctx := context.Background()

	res := f.svc.ByPoint(ctx, PointQuery{Lat: "40.7128", Lng: "-74.006", Pagination: domain.Pagination{Page: 2, Limit: 5}})
	require.True(t, res.Success)
	require.NotNil(t, f.regions.lastFilter)
	assert.Contains(t, f.regions.lastFilter.Where.SQL, "ST_Intersects(regions.geometry")
	assert.Equal(t, []any{-74.006, 40.7128}, f.regions.lastFilter.Where.Vars)
	assert.Nil(t, f.regions.lastFilter.Order)
	assert.Equal(t, 5, f.regions.lastOffset)
	assert.Equal(t, 5, f.regions.lastLimit)

	res = f.svc.ByDistance(ctx, DistanceQuery{Lat: "40.7128", Lng: "-74.006", Distance: "1000"})
	require.True(t, res.Success)
	assert.Contains(t, f.regions.lastFilter.Where.SQL, "ST_DWithin")
	assert.Equal(t, []any{-74.006, 40.7128, 1000.0}, f.regions.lastFilter.Where.Vars)
	require.NotNil(t, f.regions.lastFilter.Order, "nearest first")

	bad := f.svc.ByDistance(ctx, DistanceQuery{Lat: "NaN", Lng: "1", Distance: "1"})
	assert.Equal(t, domain.CodeInvalidQuery, bad.Code())
	bad = f.svc.ByPoint(ctx, PointQuery{Lat: "1", Lng: ""})
	assert.Equal(t, domain.CodeInvalidQuery, bad.Code())
}
