//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Email:           "sam@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
		FirstName:       "Sam",
		LastName:        "Lee",
	}
}

func TestRegisterRequest_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr bool
		errMsg  string
	}{
		{name: "valid request", mutate: func(*RegisterRequest) {}},
		{name: "missing first name", mutate: func(r *RegisterRequest) { r.FirstName = "" }, wantErr: true, errMsg: "required"},
		{name: "invalid email", mutate: func(r *RegisterRequest) { r.Email = "not-an-email" }, wantErr: true, errMsg: "email"},
		{name: "password too short", mutate: func(r *RegisterRequest) { r.Password, r.PasswordConfirm = "short", "short" }, wantErr: true, errMsg: "min"},
		{name: "confirmation mismatch", mutate: func(r *RegisterRequest) { r.PasswordConfirm = "password124" }, wantErr: true, errMsg: "eqfield"},
		{name: "missing confirmation", mutate: func(r *RegisterRequest) { r.PasswordConfirm = "" }, wantErr: true, errMsg: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)
			err := validate.Struct(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		request LoginRequest
		wantErr bool
	}{
		{name: "valid request", request: LoginRequest{Email: "john@example.com", Password: "password123"}},
		{name: "missing email", request: LoginRequest{Password: "password123"}, wantErr: true},
		{name: "invalid email", request: LoginRequest{Email: "john", Password: "password123"}, wantErr: true},
		{name: "missing password", request: LoginRequest{Email: "john@example.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.request)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	validate := validator.New()

	assert.NoError(t, validate.Struct(UpdatePasswordRequest{CurrentPassword: "oldpassword123", NewPassword: "12345678"}))
	assert.Error(t, validate.Struct(UpdatePasswordRequest{CurrentPassword: "oldpassword123", NewPassword: "short"}))
	assert.Error(t, validate.Struct(UpdatePasswordRequest{NewPassword: "newpassword456"}))
}

func TestLoginResponse_Serialization(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	response := LoginResponse{
		User: &User{
			ID:          userID,
			Email:       "john@example.com",
			FirstName:   "John",
			LastName:    "Doe",
			PasswordSet: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Access:  "access-token",
		Refresh: "refresh-token",
	}

	jsonBytes, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "access-token", decoded["access"])
	assert.Equal(t, "refresh-token", decoded["refresh"])
	user := decoded["user"].(map[string]any)
	assert.Equal(t, userID.String(), user["id"])
	assert.Equal(t, "John", user["first_name"])
	assert.NotContains(t, string(jsonBytes), "password_hash")
}

func TestValidateMethods(t *testing.T) {
	req := validRegister()
	assert.NoError(t, req.Validate())

	login := LoginRequest{Email: "bad"}
	assert.Error(t, login.Validate())

	pw := UpdatePasswordRequest{CurrentPassword: "x", NewPassword: "longenough"}
	assert.NoError(t, pw.Validate())
}
