package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateBusinessInput(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateBusinessInput
		wantErr error
	}{
		{
			name:  "valid input",
			input: CreateBusinessInput{Name: "Acme", Email: "ops@acme.io", Password: "secret"},
		},
		{
			name:    "missing name",
			input:   CreateBusinessInput{Email: "ops@acme.io", Password: "secret"},
			wantErr: ErrBusinessNameRequired,
		},
		{
			name:    "missing email",
			input:   CreateBusinessInput{Name: "Acme", Password: "secret"},
			wantErr: ErrBusinessEmailRequired,
		},
		{
			name:    "malformed email",
			input:   CreateBusinessInput{Name: "Acme", Email: "not-an-email", Password: "secret"},
			wantErr: ErrBusinessEmailInvalid,
		},
		{
			name:    "display name form rejected",
			input:   CreateBusinessInput{Name: "Acme", Email: "Ops <ops@acme.io>", Password: "secret"},
			wantErr: ErrBusinessEmailInvalid,
		},
		{
			name:    "missing password",
			input:   CreateBusinessInput{Name: "Acme", Email: "ops@acme.io"},
			wantErr: ErrBusinessPasswordRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateBusinessInput(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBusinessInput_Normalize(t *testing.T) {
	in := CreateBusinessInput{Name: "  Acme ", Email: " ops@acme.io\n", Password: " keep "}
	out := in.Normalize()

	assert.Equal(t, "Acme", out.Name)
	assert.Equal(t, "ops@acme.io", out.Email)
	assert.Equal(t, " keep ", out.Password)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", MaskAPIKey(""))
	assert.Equal(t, "•••••", MaskAPIKey("abc12"))
}

func TestBusiness_Masked(t *testing.T) {
	b := Business{ID: "b1", Name: "Acme", APIKey: "k3y", CreatedAt: time.Now()}
	masked := b.Masked()

	assert.Equal(t, "•••", masked.APIKey)
	assert.Equal(t, "k3y", b.APIKey)
	assert.Equal(t, b.Name, masked.Name)
}

func TestBusiness_UnmarshalCreatedAt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{name: "rfc3339", value: `"2024-03-01T10:00:00Z"`, want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "offset", value: `"2024-03-01T12:00:00+02:00"`, want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "date only", value: `"2024-03-01"`, want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "epoch millis", value: `1709287200000`, want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "empty string", value: `""`},
		{name: "null", value: `null`},
		{name: "unreadable", value: `"last tuesday"`},
		{name: "wrong type", value: `{"$date":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Business
			data := `{"_id":"b1","businessName":"Acme","businessAPIKey":"k","businessCreated_at":` + tt.value + `}`
			require.NoError(t, json.Unmarshal([]byte(data), &b))

			assert.Equal(t, "b1", b.ID)
			assert.Equal(t, "Acme", b.Name)
			assert.Equal(t, "k", b.APIKey)
			assert.True(t, tt.want.Equal(b.CreatedAt), "got %v", b.CreatedAt)
		})
	}
}

func TestBusiness_UnmarshalList(t *testing.T) {
	var businesses []Business
	data := `[{"_id":"a","businessCreated_at":""},{"_id":"b","businessCreated_at":"2024-03-01T10:00:00Z"}]`
	require.NoError(t, json.Unmarshal([]byte(data), &businesses))

	require.Len(t, businesses, 2)
	assert.True(t, businesses[0].CreatedAt.IsZero())
	assert.Equal(t, 2024, businesses[1].CreatedAt.Year())
}
