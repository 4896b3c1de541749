package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/RezaEskandarii/recordgrid/custom_errors"
	"github.com/RezaEskandarii/recordgrid/internal/mutation/test/mocks"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() UserFields {
	return UserFields{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Active:    true,
		TypeUser:  []string{"MANAGER", "ADMIN"},
	}
}

func strPtr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	writer := &mocks.MockWriter{}
	inv := &mocks.MockInvalidator{}
	g := NewGateway(writer, WithInvalidator(inv))

	outcome := g.Create(context.Background(), validFields())

	assert.Equal(t, types.MutationOutcome{Success: true, Message: MsgCreated, ShouldRefresh: true}, outcome)
	require.Len(t, writer.Calls, 1)
	body, ok := writer.Calls[0].Body.(types.CreateUser)
	require.True(t, ok)
	assert.Equal(t, "MANAGER", body.TypeUser)
	assert.Equal(t, []string{"/api/users/paginated"}, inv.Routes)
}

func TestCreate_ValidationFailsWithoutNetworkCall(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *UserFields)
		message string
	}{
		{name: "missing username", mutate: func(f *UserFields) { f.Username = "" }, message: MsgRequiredFields},
		{name: "missing last name", mutate: func(f *UserFields) { f.LastName = "" }, message: MsgRequiredFields},
		{name: "email without at sign", mutate: func(f *UserFields) { f.Email = "jdoe.example.com" }, message: MsgInvalidEmail},
		{name: "missing email", mutate: func(f *UserFields) { f.Email = "" }, message: MsgRequiredFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &mocks.MockWriter{}
			inv := &mocks.MockInvalidator{}
			fields := validFields()
			tt.mutate(&fields)

			outcome := NewGateway(writer, WithInvalidator(inv)).Create(context.Background(), fields)

			assert.False(t, outcome.Success)
			assert.False(t, outcome.ShouldRefresh)
			assert.Equal(t, tt.message, outcome.Message)
			assert.Empty(t, writer.Calls)
			assert.Empty(t, inv.Routes)
		})
	}
}

func TestCreate_TransportFailureBecomesOutcome(t *testing.T) {
	writer := &mocks.MockWriter{
		CreateFunc: func(context.Context, any) error {
			return &custom_errors.TransportError{Op: "create", StatusCode: 409, Message: "Nom d'utilisateur déjà utilisé"}
		},
	}
	inv := &mocks.MockInvalidator{}

	outcome := NewGateway(writer, WithInvalidator(inv)).Create(context.Background(), validFields())

	assert.Equal(t, types.Failed("Nom d'utilisateur déjà utilisé"), outcome)
	assert.Empty(t, inv.Routes)
}

func TestUpdate_DropsEmptyFields(t *testing.T) {
	writer := &mocks.MockWriter{}
	g := NewGateway(writer)
	active := false

	outcome := g.Update(context.Background(), "u1", UserPatch{
		Username:  strPtr(""),
		FirstName: strPtr("Jane"),
		Active:    &active,
		TypeUser:  []string{"ADMIN", "MANAGER"},
	})

	require.True(t, outcome.Success)
	assert.Equal(t, MsgUpdated, outcome.Message)
	require.Len(t, writer.Calls, 1)
	assert.Equal(t, "u1", writer.Calls[0].ID)
	assert.Equal(t, map[string]any{"firstName": "Jane", "active": false, "typeUser": "ADMIN"}, writer.Calls[0].Body)
}

func TestUpdate_EmptyPatchFailsFast(t *testing.T) {
	writer := &mocks.MockWriter{}

	outcome := NewGateway(writer).Update(context.Background(), "u1", UserPatch{
		Username: strPtr(""),
		Email:    strPtr(""),
	})

	assert.Equal(t, types.Failed(MsgEmptyUpdate), outcome)
	assert.Empty(t, writer.Calls)
}

func TestUpdate_InvalidEmail(t *testing.T) {
	writer := &mocks.MockWriter{}

	outcome := NewGateway(writer).Update(context.Background(), "u1", UserPatch{Email: strPtr("nope")})

	assert.Equal(t, types.Failed(MsgInvalidEmail), outcome)
	assert.Empty(t, writer.Calls)
}

func TestDelete(t *testing.T) {
	writer := &mocks.MockWriter{}
	inv := &mocks.MockInvalidator{}
	g := NewGateway(writer, WithInvalidator(inv), WithListRoute("/api/accounts/paginated"))

	outcome := g.Delete(context.Background(), "u9")

	assert.Equal(t, types.Succeeded(MsgDeleted), outcome)
	assert.Equal(t, []mocks.Call{{Op: "delete", ID: "u9"}}, writer.Calls)
	assert.Equal(t, []string{"/api/accounts/paginated"}, inv.Routes)
}

func TestDelete_RetryAfterFailureIsSafe(t *testing.T) {
	attempts := 0
	writer := &mocks.MockWriter{
		DeleteFunc: func(context.Context, string) error {
			attempts++
			if attempts == 1 {
				return errors.New("connection reset")
			}
			return nil
		},
	}
	g := NewGateway(writer)

	first := g.Delete(context.Background(), "u1")
	second := g.Delete(context.Background(), "u1")

	assert.False(t, first.Success)
	assert.Equal(t, "connection reset", first.Message)
	assert.True(t, second.Success)
}

func TestToggleStatus_SendsOnlyActive(t *testing.T) {
	writer := &mocks.MockWriter{}
	g := NewGateway(writer)

	off := g.ToggleStatus(context.Background(), "u1", true)
	on := g.ToggleStatus(context.Background(), "u1", false)

	assert.Equal(t, MsgDeactivated, off.Message)
	assert.Equal(t, MsgActivated, on.Message)
	require.Len(t, writer.Calls, 2)
	assert.Equal(t, map[string]any{"active": false}, writer.Calls[0].Body)
	assert.Equal(t, map[string]any{"active": true}, writer.Calls[1].Body)
}

func TestInvalidationFailureIsNotSurfaced(t *testing.T) {
	inv := &mocks.MockInvalidator{
		InvalidateFunc: func(context.Context, string) error { return errors.New("redis down") },
	}

	outcome := NewGateway(&mocks.MockWriter{}, WithInvalidator(inv)).Delete(context.Background(), "u1")

	assert.True(t, outcome.Success)
	assert.True(t, outcome.ShouldRefresh)
}
