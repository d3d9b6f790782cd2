package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResidentRepo struct {
	CreateFunc  func(ctx context.Context, r models.Resident) (int64, error)
	ListFunc    func(ctx context.Context) ([]models.Resident, error)
	GetByIDFunc func(ctx context.Context, id int64) (models.Resident, error)
	UpdateFunc  func(ctx context.Context, id int64, patch models.ResidentPatch) error
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockResidentRepo) Create(ctx context.Context, r models.Resident) (int64, error) {
	return m.CreateFunc(ctx, r)
}
func (m *mockResidentRepo) List(ctx context.Context) ([]models.Resident, error) {
	return m.ListFunc(ctx)
}
func (m *mockResidentRepo) GetByID(ctx context.Context, id int64) (models.Resident, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockResidentRepo) Update(ctx context.Context, id int64, patch models.ResidentPatch) error {
	return m.UpdateFunc(ctx, id, patch)
}
func (m *mockResidentRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func strPtr(s string) *string { return &s }

func TestRegistryCreate_TrimsAndDelegates(t *testing.T) {
	var got models.Resident
	repo := &mockResidentRepo{
		CreateFunc: func(ctx context.Context, r models.Resident) (int64, error) {
			got = r
			return 5, nil
		},
	}
	svc := NewRegistryService(repo)

	id, err := svc.Create(context.Background(), models.Resident{
		HouseholdNumber: " 3201 ",
		NationalID:      "3201011501900001\n",
		FullName:        " Siti ",
		Address:         strPtr("Jl. Mawar"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, "3201", got.HouseholdNumber)
	assert.Equal(t, "3201011501900001", got.NationalID)
	assert.Equal(t, "Siti", got.FullName)
	assert.Equal(t, "Jl. Mawar", *got.Address)
}

func TestRegistryCreate_MissingMandatoryField(t *testing.T) {
	repo := &mockResidentRepo{
		CreateFunc: func(ctx context.Context, r models.Resident) (int64, error) {
			t.Fatal("Create must not be called")
			return 0, nil
		},
	}
	svc := NewRegistryService(repo)

	for _, r := range []models.Resident{
		{NationalID: "1", FullName: "A"},
		{HouseholdNumber: "1", FullName: "A"},
		{HouseholdNumber: "1", NationalID: "2", FullName: "   "},
	} {
		_, err := svc.Create(context.Background(), r)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
}

func TestRegistryUpdate(t *testing.T) {
	var gotID int64
	var gotPatch models.ResidentPatch
	repo := &mockResidentRepo{
		UpdateFunc: func(ctx context.Context, id int64, patch models.ResidentPatch) error {
			gotID, gotPatch = id, patch
			return nil
		},
	}
	svc := NewRegistryService(repo)

	err := svc.Update(context.Background(), 7, models.ResidentPatch{FullName: strPtr(" Budi ")})
	require.NoError(t, err)
	assert.Equal(t, int64(7), gotID)
	assert.Equal(t, "Budi", *gotPatch.FullName)

	err = svc.Update(context.Background(), 7, models.ResidentPatch{NationalID: strPtr(" ")})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegistryPassThrough(t *testing.T) {
	wantErr := errors.New("db error")
	repo := &mockResidentRepo{
		ListFunc: func(ctx context.Context) ([]models.Resident, error) {
			return []models.Resident{{ID: 2}, {ID: 1}}, nil
		},
		GetByIDFunc: func(ctx context.Context, id int64) (models.Resident, error) {
			return models.Resident{}, models.ErrNotFound
		},
		DeleteFunc: func(ctx context.Context, id int64) error {
			return wantErr
		},
	}
	svc := NewRegistryService(repo)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, models.ErrNotFound)

	if err := svc.Delete(context.Background(), 9); err != wantErr {
		t.Fatalf("Delete error = %v; want %v", err, wantErr)
	}
}
