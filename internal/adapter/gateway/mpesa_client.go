package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/shopspring/decimal"
)

// timestampLayout is the gateway's YYYYMMDDHHMMSS format.
const timestampLayout = "20060102150405"

type Config struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	Shortcode        string
	Passkey          string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
	Timeout          time.Duration
}

// MpesaClient talks to the Daraja sandbox/production API. Credentials come
// from configuration, never from source.
type MpesaClient struct {
	cfg  Config
	http *http.Client
	now  func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewMpesaClient(cfg Config) *MpesaClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &MpesaClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"` // seconds, as a string
}

// token returns a cached OAuth token, fetching a fresh one when the cached
// token is within a minute of expiry.
func (c *MpesaClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && c.now().Add(time.Minute).Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	url := c.cfg.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &usecase.GatewayError{Op: "oauth", Err: err}
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &usecase.GatewayError{Op: "oauth", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &usecase.GatewayError{Op: "oauth", Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", &usecase.GatewayError{Op: "oauth", Err: err}
	}
	if tr.AccessToken == "" {
		return "", &usecase.GatewayError{Op: "oauth", Err: fmt.Errorf("no access token in response")}
	}

	ttl := 3600 * time.Second
	if d, err := time.ParseDuration(tr.ExpiresIn + "s"); err == nil && d > 0 {
		ttl = d
	}
	c.accessToken = tr.AccessToken
	c.tokenExpiry = c.now().Add(ttl)
	return c.accessToken, nil
}

// Password derives the push-payment authorization for one timestamp:
// base64(shortcode + passkey + timestamp).
func Password(shortcode, passkey string, ts time.Time) (password, timestamp string) {
	timestamp = ts.Format(timestampLayout)
	password = base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
	return password, timestamp
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPush asks the gateway to prompt the payer's handset. The synchronous
// response only acknowledges the prompt; the outcome arrives later on the
// callback URL.
func (c *MpesaClient) STKPush(ctx context.Context, phone string, amount decimal.Decimal) (*usecase.STKPushResponse, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := Password(c.cfg.Shortcode, c.cfg.Passkey, c.now())
	payload := stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount.Round(0).IntPart(),
		PartyA:            phone,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  c.cfg.AccountReference,
		TransactionDesc:   c.cfg.TransactionDesc,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &usecase.GatewayError{Op: "stkpush", Err: err}
	}

	url := c.cfg.BaseURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &usecase.GatewayError{Op: "stkpush", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &usecase.GatewayError{Op: "stkpush", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &usecase.GatewayError{Op: "stkpush", Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
	}

	var out usecase.STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &usecase.GatewayError{Op: "stkpush", Err: err}
	}
	return &out, nil
}

var _ usecase.PaymentGateway = (*MpesaClient)(nil)
