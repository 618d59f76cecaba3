package addresses

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

var validForm = Form{
	FullName:   "Asha Rao",
	Phone:      "9876543210",
	Line1:      "12 MG Road, Shivaji Nagar",
	City:       "Pune",
	State:      "Maharashtra",
	PostalCode: "411005",
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *Form)
		wantField string
	}{
		{name: "valid", mutate: func(*Form) {}},
		{name: "short name", mutate: func(f *Form) { f.FullName = "A" }, wantField: "full_name"},
		{name: "phone letters", mutate: func(f *Form) { f.Phone = "98765abcde" }, wantField: "phone"},
		{name: "phone short", mutate: func(f *Form) { f.Phone = "98765" }, wantField: "phone"},
		{name: "postal", mutate: func(f *Form) { f.PostalCode = "4110" }, wantField: "postal_code"},
		{name: "city", mutate: func(f *Form) { f.City = " " }, wantField: "city"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm
			tt.mutate(&f)
			errs := f.Validate()
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestAdd_DefaultsCountryAndRefreshes(t *testing.T) {
	var mu sync.Mutex
	var stored []transport.Address
	env := testutil.NewEnv(t, session.Customer, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/addresses/add/":
			var a transport.Address
			_ = json.NewDecoder(r.Body).Decode(&a)
			a.ID = uint(len(stored) + 1)
			a.IsDefault = len(stored) == 0
			stored = append(stored, a)
			testutil.JSON(w, http.StatusCreated, a)
		case "/addresses/":
			testutil.JSON(w, http.StatusOK, map[string]any{"addresses": stored})
		}
	}))
	b := New(env.D)

	require.NoError(t, b.Add(context.Background(), validForm))

	v := b.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, DefaultCountry, v.Items[0].Country)
	assert.Equal(t, "12 MG Road, Shivaji Nagar", v.Items[0].Line1)

	def, ok := b.Default()
	require.True(t, ok)
	assert.Equal(t, uint(1), def.ID)
}

func TestAdd_InvalidNeverDispatched(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, true, http.NotFoundHandler())
	b := New(env.D)

	f := validForm
	f.Phone = "123"
	err := b.Add(context.Background(), f)

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, env.Requests())
	n, _ := env.LastNotice()
	assert.Equal(t, "Phone number must be 10 digits", n.Text)
}
