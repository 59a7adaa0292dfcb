package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultKakaoBaseURL = "https://dapi.kakao.com"

// KakaoClient resolves addresses through the Kakao local-search API.
type KakaoClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewKakaoClient(apiKey string) *KakaoClient {
	return &KakaoClient{
		apiKey:  apiKey,
		baseURL: defaultKakaoBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// NewKakaoClientWithBaseURL is used by tests to point at a stub server.
func NewKakaoClientWithBaseURL(apiKey, baseURL string) *KakaoClient {
	c := NewKakaoClient(apiKey)
	c.baseURL = baseURL
	return c
}

type kakaoDocument struct {
	X string `json:"x"` // longitude
	Y string `json:"y"` // latitude
}

type kakaoResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

func (k *KakaoClient) Convert(address string) (Coords, error) {
	if address == "" {
		return Coords{}, ErrInvalidAddress
	}

	endpoint := fmt.Sprintf("%s/v2/local/search/address.json?query=%s", k.baseURL, url.QueryEscape(address))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return Coords{}, fmt.Errorf("geo: failed to build kakao request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+k.apiKey)

	res, err := k.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("geo: kakao api call failed")
		return Coords{}, fmt.Errorf("geo: kakao api call failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Warn().Int("status", res.StatusCode).Str("address", address).Msg("geo: kakao api returned non-200")
		return Coords{}, ErrInvalidAddress
	}

	var body kakaoResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Coords{}, fmt.Errorf("geo: failed to decode kakao response: %w", err)
	}

	if len(body.Documents) == 0 {
		log.Warn().Str("address", address).Msg("geo: address resolution failed")
		return Coords{}, ErrInvalidAddress
	}

	doc := body.Documents[0]
	lon, lonErr := strconv.ParseFloat(doc.X, 64)
	lat, latErr := strconv.ParseFloat(doc.Y, 64)
	if lonErr != nil || latErr != nil {
		return Coords{}, ErrInvalidAddress
	}

	log.Info().Str("address", address).Float64("lat", lat).Float64("lon", lon).Msg("geo: address resolved")
	return Coords{Latitude: lat, Longitude: lon}, nil
}
