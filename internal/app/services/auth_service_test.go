package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/okaraca/coursehub/internal/pkg/apperrors"
)

func TestValidatePassword(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, zerolog.Nop())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "secure123", wantErr: false},
		{name: "too short", password: "ab1", wantErr: true},
		{name: "no digit", password: "onlyletters", wantErr: true},
		{name: "no letter", password: "12345678", wantErr: true},
		{name: "unicode letters count", password: "pärsswörd1", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrBadRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
