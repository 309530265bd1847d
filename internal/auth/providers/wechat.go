package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/veyra-id/veyra/internal/apierr"
)

const wechatEndpoint = "https://api.weixin.qq.com/sns/jscode2session"

type wechatConfig struct {
	AppID  string `json:"appid"`
	Secret string `json:"secret"`
}

type wechatCredential struct {
	Code string `json:"code"`
}

type jsCode2SessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

type wechatProvider struct {
	appID  string
	secret string
	client *http.Client
}

func newWeChatProvider(config json.RawMessage) (AuthProvider, error) {
	var cfg wechatConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return nil, apierr.BadRequest("invalid wechat config: " + err.Error())
	}
	return &wechatProvider{
		appID:  cfg.AppID,
		secret: cfg.Secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (p *wechatProvider) ProviderID() string { return "wechat" }

// Authenticate exchanges a WeChat mini-program login code for the caller's
// openid via jscode2session. session_key is never returned in metadata:
// it decrypts user data client-side and must never leave the provider.
func (p *wechatProvider) Authenticate(ctx context.Context, credential json.RawMessage) (ProviderUserInfo, error) {
	var cred wechatCredential
	if err := json.Unmarshal(credential, &cred); err != nil {
		return ProviderUserInfo{}, apierr.BadRequest(`invalid wechat credential: expected {"code": "..."}`)
	}

	q := url.Values{
		"appid":      {p.appID},
		"secret":     {p.secret},
		"js_code":    {cred.Code},
		"grant_type": {"authorization_code"},
	}
	reqURL := wechatEndpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return ProviderUserInfo{}, apierr.Wrap("build wechat request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ProviderUserInfo{}, wrapProviderError("wechat request failed", err)
	}
	defer resp.Body.Close()

	var body jsCode2SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ProviderUserInfo{}, wrapProviderError("decode wechat response", err)
	}

	if body.ErrCode != 0 {
		return ProviderUserInfo{}, apierr.ProviderError
	}
	if body.OpenID == "" {
		return ProviderUserInfo{}, apierr.ProviderError
	}

	metadata := map[string]any{
		"openid":  body.OpenID,
		"unionid": body.UnionID,
	}

	return ProviderUserInfo{
		ProviderAccountID: body.OpenID,
		Metadata:          metadata,
	}, nil
}

func wrapProviderError(context string, err error) error {
	return fmt.Errorf("%s: %w: %w", context, err, apierr.ProviderError)
}
