package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/indrajala/indralib/event"
	"github.com/indrajala/indralib/logging"
)

// Transactional request domains and payload tags, fixed by the wire
// protocol.
const (
	domainLogin  = "$trx/kv/req/login"
	domainLogout = "$trx/kv/req/logout"
	domainKVRead = "$trx/kv/req/read"
	domainKVWrit = "$trx/kv/req/write"
	domainKVDel  = "$trx/kv/req/delete"

	domainHistory = "$trx/db/req/history"
	domainLast    = "$trx/db/req/last"
	domainUnique  = "$trx/db/req/uniquedomains"
	domainDelRecs = "$trx/db/req/del"
	domainUpdRecs = "$trx/db/req/update"
)

type kvPayload struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Login verifies username/password against the server's credential store
// and keeps the returned token as the session's auth hash; every later
// envelope carries it. The login is itself a kv verification against the
// user's password key.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	data, err := json.Marshal(kvPayload{
		Key:   fmt.Sprintf("entity/indrajala/user/%s/password", username),
		Value: password,
	})
	if err != nil {
		return "", fmt.Errorf("client: encode login: %w", err)
	}
	resp, err := c.request(ctx, domainLogin, "kvverify", string(data))
	if err != nil {
		c.setAuthHash("")
		return "", err
	}
	c.setAuthHash(resp.AuthHash)
	c.log.Debug("login succeeded", logging.Username(username))
	return resp.AuthHash, nil
}

// Logout ends the server session. The local token is cleared whether the
// server accepted the logout or not.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.request(ctx, domainLogout, "", "")
	c.setAuthHash("")
	return err
}

// KVRead fetches the value stored under key. The result is the raw JSON
// payload text; its schema is the caller's contract with the server.
func (c *Client) KVRead(ctx context.Context, key string) (string, error) {
	data, err := json.Marshal(kvPayload{Key: key})
	if err != nil {
		return "", fmt.Errorf("client: encode kv read: %w", err)
	}
	resp, err := c.request(ctx, domainKVRead, "kvread", string(data))
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// KVWrite stores value under key.
func (c *Client) KVWrite(ctx context.Context, key, value string) (string, error) {
	data, err := json.Marshal(kvPayload{Key: key, Value: value})
	if err != nil {
		return "", fmt.Errorf("client: encode kv write: %w", err)
	}
	resp, err := c.request(ctx, domainKVWrit, "kvwrite", string(data))
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// KVDelete removes the value stored under key.
func (c *Client) KVDelete(ctx context.Context, key string) (string, error) {
	data, err := json.Marshal(kvPayload{Key: key})
	if err != nil {
		return "", fmt.Errorf("client: encode kv delete: %w", err)
	}
	resp, err := c.request(ctx, domainKVDel, "kvdelete", string(data))
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// HistoryRequest selects stored events for GetHistory.
type HistoryRequest struct {
	Domain    string   `json:"domain"`
	TimeStart *float64 `json:"time_start"`
	TimeEnd   *float64 `json:"time_end"`
	Limit     *int     `json:"limit"`
	// Mode is "Sample", "Interval" or "Single".
	Mode string `json:"mode"`
}

// GetHistory asks the server's storage collaborator for historic events on
// a domain and returns the raw JSON result (typically an array of
// [julian_date, value] pairs).
func (c *Client) GetHistory(ctx context.Context, req HistoryRequest) (string, error) {
	if req.Mode == "" {
		req.Mode = "Sample"
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("client: encode history request: %w", err)
	}
	resp, err := c.request(ctx, domainHistory, "historyrequest", string(data))
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// GetLastEvent returns the most recent stored event on a domain, or nil if
// the server has none.
func (c *Client) GetLastEvent(ctx context.Context, domain string) (*event.IndraEvent, error) {
	data, err := json.Marshal(map[string]string{"domain": domain})
	if err != nil {
		return nil, fmt.Errorf("client: encode last-event request: %w", err)
	}
	resp, err := c.request(ctx, domainLast, "json/reqlast", string(data))
	if err != nil {
		return nil, err
	}
	if resp.Data == "" {
		return nil, nil
	}
	return event.FromJSON([]byte(resp.Data))
}

// GetUniqueDomains lists the distinct stored domains matching the given
// domain pattern and/or data type; empty arguments are left to the server's
// defaults.
func (c *Client) GetUniqueDomains(ctx context.Context, domain, dataType string) ([]string, error) {
	cmd := map[string]string{}
	if domain != "" {
		cmd["domain"] = domain
	}
	if dataType != "" {
		cmd["data_type"] = dataType
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("client: encode unique-domains request: %w", err)
	}
	resp, err := c.request(ctx, domainUnique, "uniquedomainsrequest", string(data))
	if err != nil {
		return nil, err
	}
	var domains []string
	if err := json.Unmarshal([]byte(resp.Data), &domains); err != nil {
		return nil, fmt.Errorf("client: decode unique domains: %w", err)
	}
	return domains, nil
}

// DeleteRecords removes stored events by domain patterns or by ids; exactly
// one of the two selectors must be given.
func (c *Client) DeleteRecords(ctx context.Context, domains, ids []string) (string, error) {
	if (len(domains) == 0) == (len(ids) == 0) {
		return "", fmt.Errorf("client: delete needs either domains or ids")
	}
	data, err := json.Marshal(map[string][]string{"domains": domains, "ids": ids})
	if err != nil {
		return "", fmt.Errorf("client: encode delete request: %w", err)
	}
	resp, err := c.request(ctx, domainDelRecs, "json/reqdel", string(data))
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// UpdateRecords rewrites stored events in place.
func (c *Client) UpdateRecords(ctx context.Context, recs []*event.IndraEvent) (string, error) {
	data, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("client: encode update request: %w", err)
	}
	resp, err := c.request(ctx, domainUpdRecs, "json/requpdate", string(data))
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// RemoteLog publishes a log message onto the bus under $log/<level>.
// level must be one of debug, info, warn, error.
func (c *Client) RemoteLog(ctx context.Context, level, message string) error {
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("client: invalid log level %q", level)
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("client: encode log message: %w", err)
	}
	ev, err := c.newEvent("$log/"+level, "log", string(data))
	if err != nil {
		return err
	}
	return c.send(ctx, ev)
}
