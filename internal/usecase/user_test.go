package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
	testhelpers "github.com/gridbill/gridbill/internal/test"
	"github.com/gridbill/gridbill/internal/usecase"
)

func seedUser(users *testhelpers.UserRepositoryStub) *model.User {
	usr := &model.User{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+12025550123",
		IsActive:  true,
	}
	users.ByEmail[usr.Email] = usr
	users.ByID[usr.ID] = usr
	return usr
}

func TestProfile(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	usr := seedUser(users)
	uc := usecase.NewUserUseCase(users)

	got, err := uc.Profile(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if got.Email != usr.Email {
		t.Fatalf("unexpected user %q", got.Email)
	}

	if _, err := uc.Profile(context.Background(), uuid.New()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfileAppliesFields(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	usr := seedUser(users)
	uc := usecase.NewUserUseCase(users)

	first := "Janet"
	phone := "+12025550199"
	prefs := model.Preferences{PaperlessBilling: true}
	updated, err := uc.UpdateProfile(context.Background(), usr.ID, model.ProfileUpdate{
		FirstName:   &first,
		Phone:       &phone,
		Preferences: &prefs,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Janet" {
		t.Fatalf("expected first name applied, got %q", updated.FirstName)
	}
	if updated.Phone != phone {
		t.Fatalf("expected phone applied, got %q", updated.Phone)
	}
	if !updated.Preferences.PaperlessBilling {
		t.Fatal("expected preferences applied")
	}
	if updated.LastName != "Doe" {
		t.Fatal("unset fields must stay untouched")
	}
}

func TestUpdateProfileEmptyIsNoop(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	usr := seedUser(users)
	uc := usecase.NewUserUseCase(users)

	got, err := uc.UpdateProfile(context.Background(), usr.ID, model.ProfileUpdate{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.ID != usr.ID {
		t.Fatal("expected current user returned")
	}
	if len(users.UpdateCalls) != 0 {
		t.Fatal("empty update must not hit the store")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	usr := seedUser(users)
	uc := usecase.NewUserUseCase(users)

	empty := "  "
	badPhone := "123"
	tests := []struct {
		name   string
		update model.ProfileUpdate
	}{
		{"blank first name", model.ProfileUpdate{FirstName: &empty}},
		{"blank last name", model.ProfileUpdate{LastName: &empty}},
		{"invalid phone", model.ProfileUpdate{Phone: &badPhone}},
		{"incomplete address", model.ProfileUpdate{Address: &model.Address{Street: "1 Main St"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.UpdateProfile(context.Background(), usr.ID, tc.update); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestListClampsPagination(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	seedUser(users)
	uc := usecase.NewUserUseCase(users)

	var captured repository.UserListFilter

	_, total, err := uc.List(context.Background(), repository.UserListFilter{Page: -5, Limit: 1000, Search: "  jane "})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected one match, got %d", total)
	}

	// Clamping is observable through a second call with a recording stub.
	recording := &testhelpers.UserRepositoryStub{}
	recording.ByID = map[uuid.UUID]*model.User{}
	recUC := usecase.NewUserUseCase(listRecorder{recording, &captured})
	if _, _, err := recUC.List(context.Background(), repository.UserListFilter{Page: 0, Limit: 0}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if captured.Page != 1 || captured.Limit != 10 {
		t.Fatalf("expected clamped filter, got page=%d limit=%d", captured.Page, captured.Limit)
	}
}

type listRecorder struct {
	*testhelpers.UserRepositoryStub
	captured *repository.UserListFilter
}

func (r listRecorder) List(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error) {
	*r.captured = filter
	return r.UserRepositoryStub.List(ctx, filter)
}
