package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const pushbulletBaseURL = "https://api.pushbullet.com"

// Pushbullet sends note pushes through the Pushbullet API.
type Pushbullet struct {
	client  *resty.Client
	baseURL string
}

func NewPushbullet(token string) *Pushbullet {
	return &Pushbullet{
		client: resty.New().
			SetHeader("Access-Token", token).
			SetTimeout(15 * time.Second),
		baseURL: pushbulletBaseURL,
	}
}

func (p *Pushbullet) Name() string {
	return "pushbullet"
}

func (p *Pushbullet) Send(ctx context.Context, title, body string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"type":  "note",
			"title": title,
			"body":  body,
		}).
		Post(p.baseURL + "/v2/pushes")
	if err != nil {
		return fmt.Errorf("pushbullet push: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("pushbullet returned status %d", resp.StatusCode())
	}
	return nil
}
