package geo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonggyo1125/delivery-6h/internal/geo"
)

func TestKakaoClient_Convert(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		status   int
		body     string
		expected geo.Coords
		wantErr  error
	}{
		{
			name:     "resolves_first_document",
			address:  "Seoul Gangnam-gu Yeoksam-dong 123",
			status:   http.StatusOK,
			body:     `{"documents":[{"x":"127.036456","y":"37.500713"},{"x":"1","y":"2"}]}`,
			expected: geo.Coords{Latitude: 37.500713, Longitude: 127.036456},
		},
		{
			name:    "no_documents_is_invalid_address",
			address: "No Such Place",
			status:  http.StatusOK,
			body:    `{"documents":[]}`,
			wantErr: geo.ErrInvalidAddress,
		},
		{
			name:    "non_200_is_invalid_address",
			address: "Seoul",
			status:  http.StatusUnauthorized,
			body:    `{}`,
			wantErr: geo.ErrInvalidAddress,
		},
		{
			name:    "malformed_coordinates_are_invalid",
			address: "Seoul",
			status:  http.StatusOK,
			body:    `{"documents":[{"x":"not-a-number","y":"37.5"}]}`,
			wantErr: geo.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/local/search/address.json", r.URL.Path)
				assert.Equal(t, tt.address, r.URL.Query().Get("query"))
				assert.Equal(t, "KakaoAK test-key", r.Header.Get("Authorization"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := geo.NewKakaoClientWithBaseURL("test-key", server.URL)
			coords, err := client.Convert(tt.address)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, coords)
		})
	}
}

func TestKakaoClient_EmptyAddress(t *testing.T) {
	client := geo.NewKakaoClient("test-key")

	_, err := client.Convert("")

	assert.ErrorIs(t, err, geo.ErrInvalidAddress)
}
